package stages

import (
	"context"

	"github.com/tripflow-poc/server/internal/trip/capability"
	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// Lodging fetches structured lodging options. Fail-soft: a malformed or
// failed search leaves an empty (never nil) result and the run advances.
type Lodging struct {
	search capability.LodgingSearch
}

func NewLodging(search capability.LodgingSearch) *Lodging {
	return &Lodging{search: search}
}

func (l *Lodging) Name() string { return StageLodging }

func (l *Lodging) Execute(ctx context.Context, s *model.TripState) (*engine.Outcome, error) {
	lodgings, cost, err := l.search.Search(ctx, s)
	degraded, err := absorb(StageLodging, s.RunID, err)
	if err != nil {
		return nil, err
	}
	if degraded {
		lodgings = []model.Lodging{}
	}

	logx.Debug().
		Str("run_id", s.RunID).
		Int("count", len(lodgings)).
		Msg("Lodging options resolved")

	return &engine.Outcome{
		Delta:    &model.Delta{Lodgings: &lodgings, CostUSD: cost},
		Degraded: degraded,
	}, nil
}

var _ engine.Stage = (*Lodging)(nil)
