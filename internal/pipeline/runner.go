package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitegraph/internal/logfields"
	"git.home.luguber.info/inful/sitegraph/internal/metrics"
)

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage. Warning stage errors are recorded and the
// run continues.
func runStages(ctx context.Context, rs *runState, defs []StageDef, rec metrics.Recorder) error {
	for _, st := range defs {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			rec.IncStageResult(string(st.Name), metrics.ResultFatal)
			return se
		}

		t0 := time.Now()
		err := st.Fn(ctx, rs)
		dur := time.Since(t0)

		rs.report.recordStage(st.Name, dur)
		rec.ObserveStageDuration(string(st.Name), dur)

		var se *StageError
		switch {
		case err == nil:
			rec.IncStageResult(string(st.Name), metrics.ResultSuccess)
			slog.Debug("Stage complete",
				logfields.RunID(rs.report.RunID),
				logfields.Stage(string(st.Name)),
				logfields.Duration(dur))
		case errors.As(err, &se) && se.Kind == StageErrorWarning:
			rec.IncStageResult(string(st.Name), metrics.ResultWarning)
			rs.report.Warnings = append(rs.report.Warnings, se.Err.Error())
			slog.Warn("Stage completed with warnings",
				logfields.RunID(rs.report.RunID),
				logfields.Stage(string(st.Name)),
				logfields.Error(se.Err))
		default:
			rec.IncStageResult(string(st.Name), metrics.ResultFatal)
			if se == nil {
				se = newFatalStageError(st.Name, err)
			}
			return se
		}
	}
	return nil
}
