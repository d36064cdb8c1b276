package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveStageDuration("resolve", 150*time.Millisecond)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncStageResult("resolve", ResultSuccess)
	pr.IncStageResult("resolve", ResultSuccess)
	pr.IncRunOutcome(RunSuccess)
	pr.SetCorpusSize(12, 5)
	pr.AddReferences(7, 2)
	pr.IncPreviewRebuild(false)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.stageResults.WithLabelValues("resolve", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.runOutcomes.WithLabelValues("success")), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(pr.records), 0)
	assert.InDelta(t, 5, testutil.ToFloat64(pr.pages), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(pr.references.WithLabelValues("resolved")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.references.WithLabelValues("unresolved")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.previewRebuild.WithLabelValues("failed")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("read", time.Second)
		pr.IncRunOutcome(RunFailed)
		pr.SetCorpusSize(1, 1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRunOutcome(RunSuccess)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `sitegraph_run_outcomes_total{outcome="success"} 1`)
}
