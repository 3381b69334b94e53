package stages

import (
	"context"

	"github.com/tripflow-poc/server/internal/trip/capability"
	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
)

// Budget produces the itemized budget breakdown. Fail-soft, and a legal
// regeneration target.
type Budget struct {
	planner capability.BudgetPlanner
}

func NewBudget(planner capability.BudgetPlanner) *Budget {
	return &Budget{planner: planner}
}

func (b *Budget) Name() string { return StageBudget }

func (b *Budget) Execute(ctx context.Context, s *model.TripState) (*engine.Outcome, error) {
	breakdown, cost, err := b.planner.Breakdown(ctx, s)
	degraded, err := absorb(StageBudget, s.RunID, err)
	if err != nil {
		return nil, err
	}

	delta := &model.Delta{CostUSD: cost}
	if !degraded {
		delta.BudgetBreakdown = &breakdown
	}

	return &engine.Outcome{Delta: delta, Degraded: degraded}, nil
}

var _ engine.Stage = (*Budget)(nil)
