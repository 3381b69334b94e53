package capability

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/parsers"
	"github.com/tripflow-poc/server/internal/trip/prompts"
	"github.com/tripflow-poc/server/internal/trip/tools"
)

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// GeminiLodgingSearch drives the lodging model with the lodging search tool
// bound and parses its strict-JSON list output. Malformed output is a
// recoverable AdapterFailure the stage absorbs with an empty slice.
type GeminiLodgingSearch struct {
	cm        chatModel
	modelName string
	retry     RetryPolicy
	maxCalls  int
}

func NewGeminiLodgingSearch(cms *ChatModels, retry RetryPolicy, maxToolCalls int) *GeminiLodgingSearch {
	return &GeminiLodgingSearch{
		cm:        cms.Lodging,
		modelName: cms.PlannerModelName,
		retry:     retry,
		maxCalls:  maxToolCalls,
	}
}

func (l *GeminiLodgingSearch) Search(ctx context.Context, s *model.TripState) ([]model.Lodging, float64, error) {
	systemPrompt, err := prompts.RenderLodgingSystem(ctx, today())
	if err != nil {
		return nil, 0, fmt.Errorf("render lodging prompt: %w", err)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		userMessage(buildRequestContext(s)),
	}

	var out *schema.Message
	var cost float64
	err = l.retry.Do(ctx, "lodging", func() error {
		o, callCost, genErr := runToolLoop(ctx, "lodging", l.cm, l.modelName, tools.LodgingTools(), l.maxCalls, msgs)
		cost += callCost
		out = o
		return genErr
	})
	if err != nil {
		return nil, cost, err
	}

	lodgings, err := parsers.ParseLodgings(out.Content)
	if err != nil {
		return nil, cost, errx.NewAdapterError("lodging", errx.AdapterMalformedOutput, err)
	}

	return lodgings, cost, nil
}

var _ LodgingSearch = (*GeminiLodgingSearch)(nil)
