package stages

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow-poc/server/internal/trip/capability"
	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// Summary writes the final narrative and is the only stage with a dynamic
// routing decision: its control signal may loop the run back to one of the
// legal regeneration targets. No signal, a "final" marker, or an
// unrecognized target all degrade to termination; livelock is not an
// acceptable failure mode for a summary.
type Summary struct {
	narrative capability.Narrative
	targets   map[string]bool
}

func NewSummary(narrative capability.Narrative) *Summary {
	targets := make(map[string]bool)
	for _, t := range RegenTargets() {
		targets[t] = true
	}
	return &Summary{narrative: narrative, targets: targets}
}

func (s *Summary) Name() string { return StageSummary }

func (s *Summary) Execute(ctx context.Context, state *model.TripState) (*engine.Outcome, error) {
	result, cost, err := s.narrative.Summarize(ctx, state)
	degraded, err := absorb(StageSummary, state.RunID, err)
	if err != nil {
		return nil, err
	}
	if degraded {
		return &engine.Outcome{
			Delta:    &model.Delta{CostUSD: cost},
			Route:    engine.Route{Goto: engine.End},
			Degraded: true,
		}, nil
	}

	delta := &model.Delta{
		Summary:        &result.Text,
		AppendMessages: []*schema.Message{schema.AssistantMessage(result.Text, nil)},
		CostUSD:        cost,
	}

	route := engine.Route{Goto: engine.End}
	switch {
	case result.Control.Target != "" && s.targets[result.Control.Target]:
		logx.Info().
			Str("run_id", state.RunID).
			Str("target", result.Control.Target).
			Msg("Summary requested regeneration")
		route.Goto = result.Control.Target
	case result.Control.Target != "":
		logx.Warn().
			Str("run_id", state.RunID).
			Str("target", result.Control.Target).
			Msg("Regeneration target outside legal set; terminating")
	}

	return &engine.Outcome{Delta: delta, Route: route}, nil
}

var _ engine.Stage = (*Summary)(nil)
