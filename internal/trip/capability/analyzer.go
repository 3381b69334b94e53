package capability

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/parsers"
	"github.com/tripflow-poc/server/internal/trip/prompts"
)

// GeminiAnalyzer extracts trip parameters from the user message. Parameters
// are structural prerequisites for everything downstream, so parse and
// validation failures surface as ErrExtractionFailed rather than degrading.
type GeminiAnalyzer struct {
	cm        chatModel
	modelName string
	retry     RetryPolicy
}

func NewGeminiAnalyzer(cms *ChatModels, retry RetryPolicy) *GeminiAnalyzer {
	return &GeminiAnalyzer{cm: cms.Analyzer, modelName: cms.AnalyzerModelName, retry: retry}
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, message string) (*model.TripParams, float64, error) {
	systemPrompt, err := prompts.RenderAnalyzerSystem(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("render analyzer prompt: %w", err)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(message),
	}

	var out *schema.Message
	var cost float64
	err = a.retry.Do(ctx, "analyzer", func() error {
		o, callCost, genErr := generate(ctx, "analyzer", a.cm, a.modelName, msgs)
		cost += callCost
		out = o
		return genErr
	})
	if err != nil {
		return nil, cost, err
	}

	params, err := parsers.ParseTripParams(out.Content)
	if err != nil {
		return nil, cost, fmt.Errorf("%w: %v", errx.ErrExtractionFailed, err)
	}

	return params, cost, nil
}

var _ Analyzer = (*GeminiAnalyzer)(nil)
