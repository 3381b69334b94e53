package capability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/parsers"
	"github.com/tripflow-poc/server/internal/trip/prompts"
)

// GeminiNarrative writes the final trip summary over the full state and
// extracts the embedded control signal. The signal is advisory output, not a
// failure mode: an output without any recognizable signal still yields a
// valid summary with a terminal control.
type GeminiNarrative struct {
	cm           chatModel
	modelName    string
	retry        RetryPolicy
	regenTargets []string
}

func NewGeminiNarrative(cms *ChatModels, retry RetryPolicy, regenTargets []string) *GeminiNarrative {
	return &GeminiNarrative{
		cm:           cms.Summary,
		modelName:    cms.PlannerModelName,
		retry:        retry,
		regenTargets: regenTargets,
	}
}

func (n *GeminiNarrative) Summarize(ctx context.Context, s *model.TripState) (*SummaryResult, float64, error) {
	systemPrompt, err := prompts.RenderSummarySystem(ctx, n.regenTargets)
	if err != nil {
		return nil, 0, fmt.Errorf("render summary prompt: %w", err)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		userMessage(buildSummaryContext(s)),
	}

	var out *schema.Message
	var cost float64
	err = n.retry.Do(ctx, "summary", func() error {
		o, callCost, genErr := generate(ctx, "summary", n.cm, n.modelName, msgs)
		cost += callCost
		out = o
		return genErr
	})
	if err != nil {
		return nil, cost, err
	}

	text := strings.TrimSpace(out.Content)
	if text == "" {
		return nil, cost, errx.NewAdapterError("summary", errx.AdapterMalformedOutput, errors.New("empty summary"))
	}

	return &SummaryResult{
		Text:    strings.TrimSpace(parsers.StripControlLine(text)),
		Control: parsers.ParseControlSignal(text),
	}, cost, nil
}

var _ Narrative = (*GeminiNarrative)(nil)
