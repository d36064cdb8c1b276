package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.ObserveStageDuration("read", time.Millisecond)
		r.ObserveRunDuration(time.Millisecond)
		r.IncStageResult("read", ResultFatal)
		r.IncRunOutcome(RunFailed)
		r.SetCorpusSize(0, 0)
		r.AddReferences(0, 0)
		r.IncPreviewRebuild(true)
	})
}
