package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/prompts"
)

// GeminiWeatherLookup produces a free-text forecast summary for the trip
// window. No tools; the output contract is plain prose.
type GeminiWeatherLookup struct {
	cm        chatModel
	modelName string
	retry     RetryPolicy
}

func NewGeminiWeatherLookup(cms *ChatModels, retry RetryPolicy) *GeminiWeatherLookup {
	return &GeminiWeatherLookup{cm: cms.Weather, modelName: cms.PlannerModelName, retry: retry}
}

func (w *GeminiWeatherLookup) Lookup(ctx context.Context, s *model.TripState) (string, float64, error) {
	systemPrompt, err := prompts.RenderWeatherSystem(ctx, today())
	if err != nil {
		return "", 0, fmt.Errorf("render weather prompt: %w", err)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		userMessage(buildRequestContext(s)),
	}

	var out *schema.Message
	var cost float64
	err = w.retry.Do(ctx, "weather", func() error {
		o, callCost, genErr := generate(ctx, "weather", w.cm, w.modelName, msgs)
		cost += callCost
		out = o
		return genErr
	})
	if err != nil {
		return "", cost, err
	}

	text := strings.TrimSpace(out.Content)
	if text == "" {
		return "", cost, errx.NewAdapterError("weather", errx.AdapterMalformedOutput, errors.New("empty forecast"))
	}
	return text, cost, nil
}

var _ WeatherLookup = (*GeminiWeatherLookup)(nil)
