package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/annotate"
	"git.home.luguber.info/inful/sitegraph/internal/config"
	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/manifest"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
	"git.home.luguber.info/inful/sitegraph/internal/pipeline"
	"git.home.luguber.info/inful/sitegraph/internal/schema"
)

// ManifestFile is written next to the output file.
const ManifestFile = "manifest.json"

const indexCacheSize = 8

// Status represents the outcome of a build execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Request contains all inputs required to execute a build.
type Request struct {
	Config *config.Config
	// WriteOutput writes the result and manifest to Config.Output.
	WriteOutput bool
}

// Result contains the outcome of a build execution.
type Result struct {
	Status       Status
	Content      *pipeline.Result
	Report       *pipeline.Report
	Schema       *schema.Schema
	Manifest     *manifest.BuildManifest
	OutputPath   string
	ManifestPath string
	Duration     time.Duration
}

// Service executes content builds. It is safe to reuse across builds; the
// only state it keeps is the reference index cache.
type Service struct {
	cache    *schema.IndexCache
	recorder metrics.Recorder
}

// NewService creates a Service with an empty index cache.
func NewService() *Service {
	cache, err := schema.NewIndexCache(indexCacheSize)
	if err != nil {
		panic(err)
	}
	return &Service{cache: cache, recorder: metrics.NoopRecorder{}}
}

// WithRecorder injects a metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// Run executes one complete build. A failed pipeline returns an error and a
// Result carrying the report; nothing is written.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	cfg := req.Config
	out := &Result{Status: StatusFailed}

	sch, err := LoadSchema(cfg)
	if err != nil {
		return out, err
	}
	out.Schema = sch

	p := pipeline.New(pipeline.Options{
		FS:             os.DirFS(cfg.Content.Root),
		DataDir:        cfg.Content.DataDir,
		PagesDir:       cfg.Content.PagesDir,
		Extensions:     cfg.Content.Extensions,
		Index:          s.cache.Index(sch),
		Schema:         sch,
		SiteConfigType: cfg.Schema.SiteConfigType,
		Annotator: annotate.New(annotate.Options{
			Enabled:       cfg.Annotations.Enabled,
			Verbose:       cfg.Annotations.Verbose,
			ObjectIDAttr:  cfg.Annotations.ObjectIDAttr,
			FieldPathAttr: cfg.Annotations.FieldPathAttr,
		}),
	}, pipeline.WithRecorder(s.recorder))

	res, rep, err := p.Run(ctx)
	out.Report = rep
	out.Duration = time.Since(start)
	if err != nil {
		return out, err
	}
	out.Content = res
	out.Status = StatusSuccess

	out.Manifest, err = manifest.New(res, rep, manifest.Inputs{
		ConfigHash:   cfg.Snapshot(),
		SchemaDigest: sch.Digest(),
	})
	if err != nil {
		return out, ferrors.WrapError(err, ferrors.CategoryBuild, "failed to build manifest").Build()
	}

	if req.WriteOutput {
		if err := s.write(cfg, out); err != nil {
			out.Status = StatusFailed
			return out, err
		}
	}
	out.Duration = time.Since(start)
	return out, nil
}

// LoadSchema loads the content model named by cfg. A relative schema path is
// resolved against the content root.
func LoadSchema(cfg *config.Config) (*schema.Schema, error) {
	p := cfg.Schema.Path
	if !filepath.IsAbs(p) {
		p = filepath.Join(cfg.Content.Root, p)
	}
	return schema.Load(p)
}

func (s *Service) write(cfg *config.Config, out *Result) error {
	dir := cfg.Output.Directory
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ferrors.FileSystemError(err, dir).Build()
	}

	out.OutputPath = filepath.Join(dir, cfg.Output.File)
	data, err := json.MarshalIndent(out.Content, "", "  ")
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryBuild, "failed to encode content").Build()
	}
	if err := writeFileAtomic(out.OutputPath, data); err != nil {
		return err
	}
	slog.Info("Wrote content", logfields.Path(out.OutputPath), logfields.Count(len(out.Content.Objects)))

	if !cfg.Output.WriteManifest() {
		return nil
	}
	out.ManifestPath = filepath.Join(dir, ManifestFile)
	sum := sha256.Sum256(data)
	out.Manifest.Outputs.ContentHash = hex.EncodeToString(sum[:])
	out.Manifest.Outputs.File = cfg.Output.File
	mdata, err := out.Manifest.ToJSON()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryBuild, "failed to encode manifest").Build()
	}
	if err := writeFileAtomic(out.ManifestPath, mdata); err != nil {
		return err
	}
	slog.Debug("Wrote manifest", logfields.Path(out.ManifestPath))
	return nil
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return ferrors.FileSystemError(err, path).Build()
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return ferrors.FileSystemError(err, path).Build()
	}
	if err := tmp.Close(); err != nil {
		return ferrors.FileSystemError(err, path).Build()
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return ferrors.FileSystemError(fmt.Errorf("rename into place: %w", err), path).Build()
	}
	return nil
}
