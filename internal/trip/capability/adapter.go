package capability

import (
	"context"
	"errors"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/parsers"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// Adapter contracts. Each adapter wraps one external collaborator: it takes a
// narrowed, read-only view of the run state and returns a normalized value
// plus the USD cost of the call, or a structured failure (errx.AdapterError
// for recoverable kinds, sentinel errors for the fatal ones). Adapters never
// mutate the state they are handed.
type (
	// Classifier is the gate collaborator: exactly model.LabelInScope or
	// model.LabelOutOfScope, anything else is ErrInvalidClassification.
	Classifier interface {
		Classify(ctx context.Context, message string) (string, float64, error)
	}

	// Analyzer derives trip parameters from the user message.
	Analyzer interface {
		Analyze(ctx context.Context, message string) (*model.TripParams, float64, error)
	}

	// LodgingSearch returns structured lodging entries for the trip.
	LodgingSearch interface {
		Search(ctx context.Context, s *model.TripState) ([]model.Lodging, float64, error)
	}

	// WeatherLookup returns a free-text weather summary.
	WeatherLookup interface {
		Lookup(ctx context.Context, s *model.TripState) (string, float64, error)
	}

	// AttractionsSearch returns a free-text attractions overview.
	AttractionsSearch interface {
		Search(ctx context.Context, s *model.TripState) (string, float64, error)
	}

	// BudgetPlanner returns an itemized budget breakdown.
	BudgetPlanner interface {
		Breakdown(ctx context.Context, s *model.TripState) (string, float64, error)
	}

	// Narrative produces the final summary and its embedded control signal.
	Narrative interface {
		Summarize(ctx context.Context, s *model.TripState) (*SummaryResult, float64, error)
	}
)

// chatModel is the slice of the Eino model contract the adapters use.
// gemini.ChatModel satisfies it; tests substitute a scripted fake.
type chatModel interface {
	Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// SummaryResult is the structured output of the narrative capability: clean
// prose plus the routing decision the regeneration resolver extracted.
type SummaryResult struct {
	Text    string
	Control parsers.ControlSignal
}

// RetryPolicy bounds retries of transient adapter failures. The budget is
// per adapter invocation, not per run.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy retries transient failures once after a short pause.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 2, Backoff: 500 * time.Millisecond}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

// Do runs op up to the attempt budget, backing off linearly between attempts.
// Only transient adapter failures are retried; everything else returns
// immediately.
func (p RetryPolicy) Do(ctx context.Context, capability string, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.attempts(); attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		ae, ok := errx.AsAdapterError(lastErr)
		if !ok || !ae.Transient() || attempt == p.attempts() {
			return lastErr
		}

		logx.Warn().
			Str("capability", capability).
			Int("attempt", attempt).
			Err(lastErr).
			Msg("Transient adapter failure; retrying")

		select {
		case <-ctx.Done():
			return classifyErr(capability, ctx.Err())
		case <-time.After(p.Backoff * time.Duration(attempt)):
		}
	}
	return lastErr
}

// classifyErr normalizes a raw model/transport error into an AdapterError.
// Caller cancellation is passed through untouched so the executor can tell
// shutdown from capability failure.
func classifyErr(capability string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errx.NewAdapterError(capability, errx.AdapterTimeout, err)
	}
	return errx.NewAdapterError(capability, errx.AdapterTransport, err)
}

// generate is the shared single-shot model call: invoke, classify failures,
// log usage cost.
func generate(ctx context.Context, capability string, cm chatModel, modelName string, msgs []*schema.Message) (*schema.Message, float64, error) {
	out, err := cm.Generate(ctx, msgs)
	if err != nil {
		return nil, 0, classifyErr(capability, err)
	}
	if out == nil {
		return nil, 0, errx.NewAdapterError(capability, errx.AdapterMalformedOutput, errors.New("nil model output"))
	}

	cost := model.UsageCost(out, modelName)
	if cost > 0 {
		logx.Debug().
			Str("capability", capability).
			Str("model", modelName).
			Float64("cost_usd", cost).
			Msg("LLM usage")
	}
	return out, cost, nil
}
