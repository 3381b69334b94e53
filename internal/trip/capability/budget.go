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

// GeminiBudgetPlanner allocates the traveler's budget across the costs the
// earlier stages collected, using the arithmetic and currency tools for
// every computation.
type GeminiBudgetPlanner struct {
	cm        chatModel
	modelName string
	retry     RetryPolicy
	maxCalls  int
}

func NewGeminiBudgetPlanner(cms *ChatModels, retry RetryPolicy, maxToolCalls int) *GeminiBudgetPlanner {
	return &GeminiBudgetPlanner{
		cm:        cms.Budget,
		modelName: cms.PlannerModelName,
		retry:     retry,
		maxCalls:  maxToolCalls,
	}
}

func (b *GeminiBudgetPlanner) Breakdown(ctx context.Context, s *model.TripState) (string, float64, error) {
	systemPrompt, err := prompts.RenderBudgetSystem(ctx, today())
	if err != nil {
		return "", 0, fmt.Errorf("render budget prompt: %w", err)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		userMessage(buildBudgetContext(s)),
	}

	var out *schema.Message
	var cost float64
	err = b.retry.Do(ctx, "budget", func() error {
		o, callCost, genErr := runToolLoop(ctx, "budget", b.cm, b.modelName, tools.BudgetTools(), b.maxCalls, msgs)
		cost += callCost
		out = o
		return genErr
	})
	if err != nil {
		return "", cost, err
	}

	text := strings.TrimSpace(out.Content)
	if text == "" {
		return "", cost, errx.NewAdapterError("budget", errx.AdapterMalformedOutput, errors.New("empty budget breakdown"))
	}
	return text, cost, nil
}

var _ BudgetPlanner = (*GeminiBudgetPlanner)(nil)
