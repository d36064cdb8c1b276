// Package metrics records pipeline observability data.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	p := pipeline.New(cfg, pipeline.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The preview server exposes the registry through HTTPHandler at /metrics.
package metrics
