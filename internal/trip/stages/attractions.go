package stages

import (
	"context"

	"github.com/tripflow-poc/server/internal/trip/capability"
	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
)

// Attractions fetches the points-of-interest overview. Fail-soft, and a
// legal regeneration target: a re-entry overwrites only this stage's field.
type Attractions struct {
	search capability.AttractionsSearch
}

func NewAttractions(search capability.AttractionsSearch) *Attractions {
	return &Attractions{search: search}
}

func (a *Attractions) Name() string { return StageAttractions }

func (a *Attractions) Execute(ctx context.Context, s *model.TripState) (*engine.Outcome, error) {
	overview, cost, err := a.search.Search(ctx, s)
	degraded, err := absorb(StageAttractions, s.RunID, err)
	if err != nil {
		return nil, err
	}

	delta := &model.Delta{CostUSD: cost}
	if !degraded {
		delta.Attractions = &overview
	}

	return &engine.Outcome{Delta: delta, Degraded: degraded}, nil
}

var _ engine.Stage = (*Attractions)(nil)
