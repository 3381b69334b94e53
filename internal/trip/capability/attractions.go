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
	"github.com/tripflow-poc/server/internal/trip/tools"
)

// GeminiAttractionsSearch drives the attractions model with the
// points-of-interest search tool bound. Output is a prose overview with cost
// estimates; regeneration hits this adapter again with the same view.
type GeminiAttractionsSearch struct {
	cm        chatModel
	modelName string
	retry     RetryPolicy
	maxCalls  int
}

func NewGeminiAttractionsSearch(cms *ChatModels, retry RetryPolicy, maxToolCalls int) *GeminiAttractionsSearch {
	return &GeminiAttractionsSearch{
		cm:        cms.Attractions,
		modelName: cms.PlannerModelName,
		retry:     retry,
		maxCalls:  maxToolCalls,
	}
}

func (a *GeminiAttractionsSearch) Search(ctx context.Context, s *model.TripState) (string, float64, error) {
	systemPrompt, err := prompts.RenderAttractionsSystem(ctx, today())
	if err != nil {
		return "", 0, fmt.Errorf("render attractions prompt: %w", err)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		userMessage(buildRequestContext(s)),
	}

	var out *schema.Message
	var cost float64
	err = a.retry.Do(ctx, "attractions", func() error {
		o, callCost, genErr := runToolLoop(ctx, "attractions", a.cm, a.modelName, tools.AttractionTools(), a.maxCalls, msgs)
		cost += callCost
		out = o
		return genErr
	})
	if err != nil {
		return "", cost, err
	}

	text := strings.TrimSpace(out.Content)
	if text == "" {
		return "", cost, errx.NewAdapterError("attractions", errx.AdapterMalformedOutput, errors.New("empty attractions overview"))
	}
	return text, cost, nil
}

var _ AttractionsSearch = (*GeminiAttractionsSearch)(nil)
