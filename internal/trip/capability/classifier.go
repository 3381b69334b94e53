package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/prompts"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// GeminiClassifier is the gate collaborator. Its contract is strict: the
// model must answer with exactly one of the two labels, and anything else is
// a fatal classification failure, never a guess.
type GeminiClassifier struct {
	cm        chatModel
	modelName string
	retry     RetryPolicy
}

func NewGeminiClassifier(cms *ChatModels, retry RetryPolicy) *GeminiClassifier {
	return &GeminiClassifier{cm: cms.Classifier, modelName: cms.ClassifierModelName, retry: retry}
}

func (c *GeminiClassifier) Classify(ctx context.Context, message string) (string, float64, error) {
	systemPrompt, err := prompts.RenderClassifierSystem(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("render classifier prompt: %w", err)
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(message),
	}

	var out *schema.Message
	var cost float64
	err = c.retry.Do(ctx, "classifier", func() error {
		o, callCost, genErr := generate(ctx, "classifier", c.cm, c.modelName, msgs)
		cost += callCost
		out = o
		return genErr
	})
	if err != nil {
		return "", cost, err
	}

	label := strings.TrimSpace(out.Content)
	if label != model.LabelInScope && label != model.LabelOutOfScope {
		logx.Error().
			Str("capability", "classifier").
			Str("label", label).
			Msg("Classifier produced neither recognized label")
		return "", cost, fmt.Errorf("%w: got %q", errx.ErrInvalidClassification, label)
	}

	return label, cost, nil
}

var _ Classifier = (*GeminiClassifier)(nil)
