package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegraph/internal/config"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
)

const shutdownTimeout = 5 * time.Second

// Start builds the content once, serves it and rebuilds on file changes
// until ctx is canceled. A failed initial build does not stop the server.
func Start(ctx context.Context, cfg *config.Config, opts ...Option) error {
	roots, err := watchRoots(cfg)
	if err != nil {
		return err
	}
	ignored := ignoredDirs(cfg)

	srv := NewServer(cfg, opts...)
	if err := srv.Rebuild(ctx); err != nil {
		slog.Error("Initial build failed", logfields.Error(err))
	}

	httpServer, err := startHTTPServer(cfg, srv.Handler())
	if err != nil {
		return err
	}

	watcher, err := setupFileWatcher(roots, ignored)
	if err != nil {
		_ = httpServer.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	debouncer := newRebuildDebouncer(ctx, cfg.Preview.Debounce)
	startRebuildWorker(ctx, srv, debouncer)

	return runPreviewLoop(ctx, watcher, ignored, debouncer, httpServer)
}

// watchRoots returns the absolute directories to watch: the content root and
// the schema location when it lies outside the root.
func watchRoots(cfg *config.Config) ([]string, error) {
	root, err := filepath.Abs(cfg.Content.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve content root: %w", err)
	}
	if st, statErr := os.Stat(root); statErr != nil || !st.IsDir() {
		return nil, fmt.Errorf("content root not found or not a directory: %s", root)
	}
	roots := []string{root}

	schemaPath := cfg.Schema.Path
	if !filepath.IsAbs(schemaPath) {
		schemaPath = filepath.Join(root, schemaPath)
	}
	if st, statErr := os.Stat(schemaPath); statErr == nil && !st.IsDir() {
		schemaPath = filepath.Dir(schemaPath)
	}
	if !within(schemaPath, root) {
		roots = append(roots, schemaPath)
	}
	return roots, nil
}

// ignoredDirs lists directories whose changes never trigger a rebuild.
func ignoredDirs(cfg *config.Config) []string {
	out, err := filepath.Abs(cfg.Output.Directory)
	if err != nil {
		return nil
	}
	return []string{out}
}

func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func startHTTPServer(cfg *config.Config, h http.Handler) (*http.Server, error) {
	addr := net.JoinHostPort(cfg.Preview.Host, strconv.Itoa(cfg.Preview.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to start HTTP server: %w", err)
	}
	server := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server stopped", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening", slog.String("addr", addr), logfields.URL("http://"+addr+"/content.json"))
	return server, nil
}

func setupFileWatcher(roots, ignored []string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, root := range roots {
		if err := addDirsRecursive(watcher, root, ignored); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}
	return watcher, nil
}

// rebuildDebouncer sends one request on req once no further trigger arrives
// within delay. req is never closed; sends stop once ctx is done.
type rebuildDebouncer struct {
	ctx   context.Context
	delay time.Duration
	req   chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func newRebuildDebouncer(ctx context.Context, delay time.Duration) *rebuildDebouncer {
	return &rebuildDebouncer{ctx: ctx, delay: delay, req: make(chan struct{}, 1)}
}

func (d *rebuildDebouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ctx.Err() != nil {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.request)
}

// request queues a rebuild unless one is already queued.
func (d *rebuildDebouncer) request() {
	select {
	case <-d.ctx.Done():
		return
	default:
	}
	select {
	case d.req <- struct{}{}:
	default:
	}
}

// stop cancels a pending timer.
func (d *rebuildDebouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// startRebuildWorker runs rebuilds one at a time. A request that arrives
// during a rebuild schedules exactly one more.
func startRebuildWorker(ctx context.Context, srv *Server, d *rebuildDebouncer) {
	var mu sync.Mutex
	running := false
	pending := false

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.req:
				mu.Lock()
				if running {
					pending = true
					mu.Unlock()
					continue
				}
				running = true
				mu.Unlock()

				slog.Info("Change detected; rebuilding content")
				if err := srv.Rebuild(ctx); err != nil {
					slog.Warn("Rebuild failed; serving previous result", logfields.Error(err))
				}

				mu.Lock()
				running = false
				again := pending
				pending = false
				mu.Unlock()
				if again {
					d.request()
				}
			}
		}
	}()
}

func runPreviewLoop(ctx context.Context, watcher *fsnotify.Watcher, ignored []string, debouncer *rebuildDebouncer, httpServer *http.Server) error {
	for {
		select {
		case <-ctx.Done():
			return handleShutdown(httpServer, debouncer)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, ignored, debouncer.trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func handleShutdown(httpServer *http.Server, debouncer *rebuildDebouncer) error {
	slog.Info("Shutting down preview server...")
	debouncer.stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}

func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, ignored []string, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || inAny(ev.Name, ignored) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name, ignored)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string, ignored []string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if inAny(path, ignored) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func inAny(p string, dirs []string) bool {
	for _, d := range dirs {
		if within(p, d) {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent reports whether a changed path is an editor or OS
// artifact that must not trigger a rebuild.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files; files inside hidden directories such as .stackbit still count.
	if strings.HasPrefix(base, ".") {
		return true
	}

	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
