package stages

import (
	"context"
	"fmt"

	"github.com/tripflow-poc/server/internal/trip/capability"
	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// Analyzer extracts the trip parameters every downstream stage depends on.
// Extraction failures are fatal; continuing with nil parameters would only
// defer the breakage to a worse place.
type Analyzer struct {
	analyzer capability.Analyzer
}

func NewAnalyzer(analyzer capability.Analyzer) *Analyzer {
	return &Analyzer{analyzer: analyzer}
}

func (a *Analyzer) Name() string { return StageAnalyzer }

func (a *Analyzer) Execute(ctx context.Context, s *model.TripState) (*engine.Outcome, error) {
	msg := s.LatestMessage()
	if msg == nil {
		return nil, fmt.Errorf("no message to analyze")
	}

	params, cost, err := a.analyzer.Analyze(ctx, msg.Content)
	if err != nil {
		return nil, err
	}

	logx.Debug().
		Str("run_id", s.RunID).
		Str("destination", params.Destination).
		Int("days", params.Days).
		Msg("Trip parameters extracted")

	return &engine.Outcome{
		Delta: &model.Delta{Params: params, CostUSD: cost},
	}, nil
}

var _ engine.Stage = (*Analyzer)(nil)
