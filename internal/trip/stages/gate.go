package stages

import (
	"context"
	"fmt"

	"github.com/tripflow-poc/server/internal/trip/capability"
	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// Gate classifies the incoming request as travel-related or not. Every
// failure here is fatal: the run must not guess its way past the gate.
type Gate struct {
	classifier capability.Classifier
}

func NewGate(classifier capability.Classifier) *Gate {
	return &Gate{classifier: classifier}
}

func (g *Gate) Name() string { return StageGate }

func (g *Gate) Execute(ctx context.Context, s *model.TripState) (*engine.Outcome, error) {
	msg := s.LatestMessage()
	if msg == nil {
		return nil, fmt.Errorf("no message to classify")
	}

	label, cost, err := g.classifier.Classify(ctx, msg.Content)
	if err != nil {
		return nil, err
	}

	logx.Debug().
		Str("run_id", s.RunID).
		Str("label", label).
		Msg("Request classified")

	return &engine.Outcome{
		Delta: &model.Delta{Classification: &label, CostUSD: cost},
	}, nil
}

var _ engine.Stage = (*Gate)(nil)
