package stages

import (
	"context"

	"github.com/tripflow-poc/server/internal/trip/capability"
	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
)

// Weather fetches the forecast summary. Fail-soft: on adapter failure the
// field stays unset and the run advances.
type Weather struct {
	lookup capability.WeatherLookup
}

func NewWeather(lookup capability.WeatherLookup) *Weather {
	return &Weather{lookup: lookup}
}

func (w *Weather) Name() string { return StageWeather }

func (w *Weather) Execute(ctx context.Context, s *model.TripState) (*engine.Outcome, error) {
	forecast, cost, err := w.lookup.Lookup(ctx, s)
	degraded, err := absorb(StageWeather, s.RunID, err)
	if err != nil {
		return nil, err
	}

	delta := &model.Delta{CostUSD: cost}
	if !degraded {
		delta.Weather = &forecast
	}

	return &engine.Outcome{Delta: delta, Degraded: degraded}, nil
}

var _ engine.Stage = (*Weather)(nil)
