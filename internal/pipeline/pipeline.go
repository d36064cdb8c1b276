// Package pipeline loads a content corpus and turns it into the resolved,
// annotated object graph handed to the rendering layer.
//
// A run executes its stages strictly in order:
//
//	discover -> read -> urls -> index -> resolve -> clone -> annotate -> partition -> site
//
// Resolution may make several records point at the same target; clone turns
// the graph back into independent trees before annotate mutates them. Any
// fatal stage error aborts the run and no Result is returned.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegraph/internal/annotate"
	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/discovery"
	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
	"git.home.luguber.info/inful/sitegraph/internal/reader"
	"git.home.luguber.info/inful/sitegraph/internal/resolve"
	"git.home.luguber.info/inful/sitegraph/internal/schema"
	"git.home.luguber.info/inful/sitegraph/internal/urlmap"
)

// Default corpus layout.
const (
	DefaultDataDir        = "content/data"
	DefaultPagesDir       = "content/pages"
	DefaultSiteConfigType = "Config"
)

// Props carries the values passed to every rendered page.
type Props struct {
	Site *content.Record `json:"site,omitempty"`
}

// Result is the output contract to the rendering layer. Every page carries a
// URL path; Objects holds all records in enumeration order.
type Result struct {
	Objects []*content.Record `json:"objects"`
	Pages   []*content.Record `json:"pages"`
	Props   Props             `json:"props"`
}

// Page returns the page with the given URL path.
func (r *Result) Page(url string) (*content.Record, bool) {
	for _, p := range r.Pages {
		if p.URLPath() == url {
			return p, true
		}
	}
	return nil, false
}

// Options describes the corpus and how to process it.
type Options struct {
	// FS is the corpus root; identifiers are slash paths relative to it.
	FS             fs.FS
	DataDir        string
	PagesDir       string
	Extensions     []string
	Index          *schema.ReferenceIndex
	Schema         *schema.Schema // optional; enables unknown type warnings
	SiteConfigType string
	Annotator      annotate.Annotator
}

// Pipeline runs the content stages over one corpus.
type Pipeline struct {
	opts     Options
	recorder metrics.Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// New creates a Pipeline, filling unset options with defaults.
func New(opts Options, options ...Option) *Pipeline {
	if opts.DataDir == "" {
		opts.DataDir = DefaultDataDir
	}
	if opts.PagesDir == "" {
		opts.PagesDir = DefaultPagesDir
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = reader.SupportedExtensions()
	}
	if opts.SiteConfigType == "" {
		opts.SiteConfigType = DefaultSiteConfigType
	}
	if opts.Annotator == nil {
		opts.Annotator = annotate.Noop{}
	}
	p := &Pipeline{opts: opts, recorder: metrics.NoopRecorder{}}
	for _, o := range options {
		o(p)
	}
	return p
}

type runState struct {
	files   []string
	records []*content.Record
	lookup  resolve.Lookup
	result  *Result
	report  *Report
}

// Run executes one full pass over the corpus. The Report is returned even
// when the run fails.
func (p *Pipeline) Run(ctx context.Context) (*Result, *Report, error) {
	rs := &runState{result: &Result{}, report: newReport(uuid.NewString())}
	slog.Info("Pipeline run started",
		logfields.RunID(rs.report.RunID),
		slog.String("data_dir", p.opts.DataDir),
		slog.String("pages_dir", p.opts.PagesDir))

	defs := newStageList().
		add(StageDiscover, p.stageDiscover).
		add(StageRead, p.stageRead).
		add(StageURLs, p.stageURLs).
		add(StageIndex, p.stageIndex).
		add(StageResolve, p.stageResolve).
		add(StageClone, stageClone).
		add(StageAnnotate, p.stageAnnotate).
		add(StagePartition, stagePartition).
		add(StageSite, p.stageSite).
		defs

	err := runStages(ctx, rs, defs, p.recorder)
	rs.report.finish(err)
	p.recorder.ObserveRunDuration(rs.report.Duration())
	if err != nil {
		p.recorder.IncRunOutcome(metrics.RunFailed)
		slog.Error("Pipeline run failed", logfields.RunID(rs.report.RunID), logfields.Error(err))
		return nil, rs.report, err
	}

	p.recorder.IncRunOutcome(metrics.RunSuccess)
	p.recorder.SetCorpusSize(rs.report.Records, rs.report.Pages)
	slog.Info("Pipeline run complete", logfields.RunID(rs.report.RunID), slog.String("summary", rs.report.Summary()))
	return rs.result, rs.report, nil
}

func (p *Pipeline) stageDiscover(_ context.Context, rs *runState) error {
	files, err := discovery.New(p.opts.FS, p.opts.Extensions).Discover(p.opts.DataDir, p.opts.PagesDir)
	if err != nil {
		return newFatalStageError(StageDiscover, err)
	}
	rs.files = files
	rs.report.Files = len(files)
	return nil
}

func (p *Pipeline) stageRead(ctx context.Context, rs *runState) error {
	rd := reader.New(p.opts.FS)
	rs.records = make([]*content.Record, 0, len(rs.files))
	for _, f := range rs.files {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageRead, err)
		}
		rec, err := rd.Read(f)
		if err != nil {
			return newFatalStageError(StageRead, err)
		}
		rs.records = append(rs.records, rec)
	}
	rs.report.Records = len(rs.records)
	return nil
}

func (p *Pipeline) stageURLs(_ context.Context, rs *runState) error {
	m := urlmap.New(p.opts.PagesDir)
	for _, rec := range rs.records {
		if url, ok := m.URLFor(rec.ID()); ok {
			rec.Meta.URLPath = url
		}
	}
	return nil
}

// stageIndex builds the identifier lookup and reports type tags the schema
// does not declare.
func (p *Pipeline) stageIndex(_ context.Context, rs *runState) error {
	rs.lookup = resolve.NewLookup(rs.records)
	if p.opts.Schema == nil {
		return nil
	}

	var unknown []string
	for _, rec := range rs.records {
		tn := rec.TypeName()
		if tn == "" || p.opts.Schema.Has(tn) {
			continue
		}
		slog.Warn("Record type is not declared in the content model",
			logfields.File(rec.ID()), logfields.Type(tn))
		if !slices.Contains(unknown, tn) {
			unknown = append(unknown, tn)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	rs.report.UnknownTypes = unknown
	return newWarnStageError(StageIndex, fmt.Errorf("undeclared types: %s", strings.Join(unknown, ", ")))
}

func (p *Pipeline) stageResolve(_ context.Context, rs *runState) error {
	st := resolve.New(p.opts.Index, rs.lookup).Resolve(rs.records)
	rs.report.Resolved = st.Resolved
	rs.report.Unresolved = st.Unresolved
	p.recorder.AddReferences(st.Resolved, st.Unresolved)
	return nil
}

func stageClone(_ context.Context, rs *runState) error {
	for i, rec := range rs.records {
		rs.records[i] = content.Clone(rec)
	}
	rs.lookup = nil
	return nil
}

func (p *Pipeline) stageAnnotate(_ context.Context, rs *runState) error {
	for _, rec := range rs.records {
		p.opts.Annotator.Annotate(rec)
	}
	return nil
}

func stagePartition(_ context.Context, rs *runState) error {
	rs.result.Objects = rs.records
	rs.result.Pages = make([]*content.Record, 0)
	for _, rec := range rs.records {
		if rec.URLPath() != "" {
			rs.result.Pages = append(rs.result.Pages, rec)
		}
	}
	rs.report.Pages = len(rs.result.Pages)
	return nil
}

func (p *Pipeline) stageSite(_ context.Context, rs *runState) error {
	for _, rec := range rs.result.Objects {
		if rec.TypeName() == p.opts.SiteConfigType {
			rs.result.Props.Site = rec
			return nil
		}
	}
	slog.Debug("No site configuration record", logfields.Type(p.opts.SiteConfigType))
	return nil
}
