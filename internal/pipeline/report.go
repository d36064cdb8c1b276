package pipeline

import (
	"fmt"
	"time"
)

// Outcome is the final status of a run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

// StageTiming is the measured duration of one executed stage.
type StageTiming struct {
	Stage    StageName     `json:"stage"`
	Duration time.Duration `json:"duration_ns"`
}

// Report captures what a run did. It is filled in even when the run fails.
type Report struct {
	RunID        string        `json:"run_id"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Stages       []StageTiming `json:"stages"`
	Files        int           `json:"files"`
	Records      int           `json:"records"`
	Pages        int           `json:"pages"`
	Resolved     int           `json:"references_resolved"`
	Unresolved   int           `json:"references_unresolved"`
	UnknownTypes []string      `json:"unknown_types,omitempty"`
	Warnings     []string      `json:"warnings,omitempty"`
	Error        string        `json:"error,omitempty"`
	Outcome      Outcome       `json:"outcome"`
}

func newReport(runID string) *Report {
	return &Report{RunID: runID, Start: time.Now()}
}

func (r *Report) recordStage(name StageName, d time.Duration) {
	r.Stages = append(r.Stages, StageTiming{Stage: name, Duration: d})
}

// StageDuration returns the duration of the named stage, if it ran.
func (r *Report) StageDuration(name StageName) (time.Duration, bool) {
	for _, st := range r.Stages {
		if st.Stage == name {
			return st.Duration, true
		}
	}
	return 0, false
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

func (r *Report) finish(err error) {
	r.End = time.Now()
	switch {
	case err != nil:
		r.Outcome = OutcomeFailed
		r.Error = err.Error()
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Summary returns a single-line human readable summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("run=%s files=%d records=%d pages=%d refs=%d unresolved=%d warnings=%d duration=%s outcome=%s",
		r.RunID, r.Files, r.Records, r.Pages, r.Resolved, r.Unresolved, len(r.Warnings),
		r.Duration().Truncate(time.Millisecond), r.Outcome)
}
