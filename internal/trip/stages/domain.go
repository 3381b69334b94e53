package stages

import (
	errx "github.com/tripflow-poc/server/internal/core/error"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// absorb implements the fail-soft policy of the domain stages: an
// AdapterError is logged and swallowed so the stage writes its safe default
// and the run continues; anything else (cancellation, internal bugs) stays
// fatal. Returns true when the failure was absorbed.
func absorb(stage, runID string, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if ae, ok := errx.AsAdapterError(err); ok {
		logx.Warn().
			Str("run_id", runID).
			Str("stage", stage).
			Str("kind", string(ae.Kind)).
			Err(ae.Err).
			Msg("Adapter failure absorbed; continuing with safe default")
		return true, nil
	}
	return false, err
}
