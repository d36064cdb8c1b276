package preview

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegraph/internal/build"
	"git.home.luguber.info/inful/sitegraph/internal/config"
	ferrors "git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/linkverify"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/markdown"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
	"git.home.luguber.info/inful/sitegraph/internal/version"
)

// BuildErrorHeader is set on content responses served from a stale build.
const BuildErrorHeader = "X-Sitegraph-Build-Error"

// Server holds the preview state and its HTTP handlers.
type Server struct {
	cfg      *config.Config
	svc      *build.Service
	recorder metrics.Recorder
	registry *prometheus.Registry
	write    bool

	status   *buildStatus
	renderer *markdown.Renderer
	errs     *ferrors.HTTPErrorAdapter
	started  time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithOutput makes every rebuild write the output file and manifest.
func WithOutput(write bool) Option {
	return func(s *Server) { s.write = write }
}

// NewServer creates a Server for cfg. When metrics are enabled a private
// Prometheus registry backs both the build recorder and /metrics.
func NewServer(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		status:   &buildStatus{},
		renderer: markdown.NewRenderer(),
		errs:     ferrors.NewHTTPErrorAdapter(slog.Default()),
		started:  time.Now(),
	}
	if cfg.Preview.MetricsEnabled() {
		s.registry = prometheus.NewRegistry()
		s.recorder = metrics.NewPrometheusRecorder(s.registry)
	}
	s.svc = build.NewService().WithRecorder(s.recorder)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rebuild runs one build and records its outcome. The previous good result is
// kept when the build fails.
func (s *Server) Rebuild(ctx context.Context) error {
	res, err := s.svc.Run(ctx, build.Request{Config: s.cfg, WriteOutput: s.write})
	s.recorder.IncPreviewRebuild(err == nil)
	if err != nil {
		s.status.setError(err)
		return err
	}
	s.status.setSuccess(res)
	slog.Info("Content rebuilt",
		logfields.Count(len(res.Content.Objects)),
		logfields.Duration(res.Duration),
		slog.String("outcome", string(res.Report.Outcome)))
	return nil
}

// Handler returns the HTTP routes of the preview server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /content.json", s.handleContent)
	mux.HandleFunc("GET /pages", s.handlePages)
	mux.HandleFunc("GET /pages/{url...}", s.handlePage)
	mux.HandleFunc("GET /preview/{url...}", s.handlePreview)
	mux.HandleFunc("GET /links", s.handleLinks)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.registry))
	}
	return mux
}

// current returns the last good build, or writes an error response when
// there is none.
func (s *Server) current(w http.ResponseWriter, r *http.Request) (*build.Result, bool) {
	st := s.status.get()
	if st.Last == nil {
		b := ferrors.NewError(ferrors.CategoryRuntime, "no successful build yet")
		if st.LastError != nil {
			b = ferrors.WrapError(st.LastError, ferrors.CategoryRuntime, "no successful build yet")
		}
		s.errs.WriteErrorResponse(w, r, b.Build())
		return nil, false
	}
	if st.LastError != nil {
		w.Header().Set(BuildErrorHeader, firstLine(st.LastError.Error()))
	}
	return st.Last, true
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	res, ok := s.current(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, res.Content)
}

// PageSummary is one entry of the /pages listing.
type PageSummary struct {
	URL   string `json:"url"`
	ID    string `json:"id"`
	Type  string `json:"type,omitempty"`
	Title string `json:"title"`
}

func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	res, ok := s.current(w, r)
	if !ok {
		return
	}
	out := make([]PageSummary, 0, len(res.Content.Pages))
	for _, p := range res.Content.Pages {
		out = append(out, PageSummary{
			URL:   p.URLPath(),
			ID:    p.ID(),
			Type:  p.TypeName(),
			Title: s.renderer.Title(p),
		})
	}
	s.writeJSON(w, r, out)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	res, ok := s.current(w, r)
	if !ok {
		return
	}
	url := pageURL(r)
	page, found := res.Content.Page(url)
	if !found {
		s.errs.WriteErrorResponse(w, r, ferrors.NotFoundError("page").WithContext("url", url).Build())
		return
	}
	s.writeJSON(w, r, page)
}

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{if .BuildError}}<pre class="build-error">{{.BuildError}}</pre>
{{end}}<main>
{{.Body}}
</main>
</body>
</html>
`))

type previewData struct {
	Title      string
	Body       template.HTML
	BuildError string
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, ok := s.current(w, r)
	if !ok {
		return
	}
	url := pageURL(r)
	rec, found := res.Content.Page(url)
	if !found {
		s.errs.WriteErrorResponse(w, r, ferrors.NotFoundError("page").WithContext("url", url).Build())
		return
	}
	page, err := s.renderer.RenderPage(rec)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryContent, "failed to render page").
			WithContext("url", url).Build())
		return
	}

	data := previewData{Title: page.Title, Body: template.HTML(page.HTML)} // #nosec G203 -- goldmark output with raw HTML disabled
	if st := s.status.get(); st.LastError != nil {
		data.BuildError = st.LastError.Error()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTemplate.Execute(w, data); err != nil {
		slog.Warn("Failed to write preview", logfields.URL(url), logfields.Error(err))
	}
}

// LinkReport is the /links response.
type LinkReport struct {
	Pages  int                     `json:"pages"`
	Broken []linkverify.BrokenLink `json:"broken"`
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	res, ok := s.current(w, r)
	if !ok {
		return
	}
	report, err := CheckLinks(s.renderer, res)
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, r, report)
}

// CheckLinks renders every page of res and reports internal links that do
// not point at another page.
func CheckLinks(renderer *markdown.Renderer, res *build.Result) (LinkReport, error) {
	urls := make([]string, 0, len(res.Content.Pages))
	for _, p := range res.Content.Pages {
		urls = append(urls, p.URLPath())
	}
	checker := linkverify.NewChecker(urls)

	report := LinkReport{Pages: len(urls), Broken: []linkverify.BrokenLink{}}
	for _, p := range res.Content.Pages {
		page, err := renderer.RenderPage(p)
		if err != nil {
			return report, ferrors.WrapError(err, ferrors.CategoryContent, "failed to render page").
				WithContext("url", p.URLPath()).Build()
		}
		broken, err := checker.Check(page.URL, page.HTML)
		if err != nil {
			return report, err
		}
		report.Broken = append(report.Broken, broken...)
	}
	return report, nil
}

// HealthResponse is the /healthz response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Builds    int       `json:"builds"`
	Failures  int       `json:"failures"`
	LastBuild time.Time `json:"last_build,omitzero"`
	Error     string    `json:"error,omitempty"`
}

// Health states.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.status.get()
	resp := HealthResponse{
		Status:    HealthHealthy,
		Version:   version.Version,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Builds:    st.Builds,
		Failures:  st.Failures,
		LastBuild: st.LastBuild,
	}
	code := http.StatusOK
	if st.LastError != nil {
		resp.Error = st.LastError.Error()
		resp.Status = HealthDegraded
	}
	if st.Last == nil {
		resp.Status = HealthUnhealthy
		code = http.StatusServiceUnavailable
	}
	s.writeJSONStatus(w, r, code, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	s.writeJSONStatus(w, r, http.StatusOK, v)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, r *http.Request, code int, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.errs.WriteErrorResponse(w, r, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode response").Build())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

// pageURL maps a request path wildcard to a page URL path.
func pageURL(r *http.Request) string {
	u := "/" + strings.Trim(r.PathValue("url"), "/")
	if u == "/index" {
		return "/"
	}
	return u
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
