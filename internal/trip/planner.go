package trip

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripflow-poc/server/internal/trip/capability"
	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/stages"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// Config holds everything needed to compose the full planning pipeline
// end-to-end. This is a convenience layer over NewPlanner that also
// constructs the Gemini-backed capability adapters.
type Config struct {
	APIKey  string
	BaseURL string

	ClassifierModel model.ClassifierModelConfig
	AnalyzerModel   model.AnalyzerModelConfig
	PlannerModel    model.PlannerModelConfig
	Pipeline        model.PipelineConfig

	RunRepo model.RunRepository
}

// Adapters carries one capability adapter per external collaborator. Every
// adapter is injected explicitly; nothing here is package-level state, so
// tests swap in stubs and concurrent runs share nothing mutable.
type Adapters struct {
	Classifier  capability.Classifier
	Analyzer    capability.Analyzer
	Lodging     capability.LodgingSearch
	Weather     capability.WeatherLookup
	Attractions capability.AttractionsSearch
	Budget      capability.BudgetPlanner
	Narrative   capability.Narrative
}

// Planner is the entry surface of the pipeline: one Submit call per run.
type Planner struct {
	exec *engine.Executor
	repo model.RunRepository
}

// BuildPlanner composes chat models, adapters, stages, and the executor from
// configuration, and returns a ready Planner.
func BuildPlanner(ctx context.Context, cfg Config) (*Planner, error) {
	stageTimeout, err := time.ParseDuration(cfg.Pipeline.StageTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid stage timeout %q: %w", cfg.Pipeline.StageTimeout, err)
	}
	backoff, err := time.ParseDuration(cfg.Pipeline.Retry.Backoff)
	if err != nil {
		return nil, fmt.Errorf("invalid retry backoff %q: %w", cfg.Pipeline.Retry.Backoff, err)
	}

	cms, err := capability.NewChatModels(ctx, capability.ChatModelConfig{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		ClassifierConfig: &cfg.ClassifierModel,
		AnalyzerConfig:   &cfg.AnalyzerModel,
		PlannerConfig:    &cfg.PlannerModel,
	})
	if err != nil {
		return nil, err
	}

	retry := capability.RetryPolicy{
		MaxAttempts: cfg.Pipeline.Retry.MaxAttempts,
		Backoff:     backoff,
	}
	maxToolCalls := cfg.Pipeline.Tools.MaxCalls

	adapters := Adapters{
		Classifier:  capability.NewGeminiClassifier(cms, retry),
		Analyzer:    capability.NewGeminiAnalyzer(cms, retry),
		Lodging:     capability.NewGeminiLodgingSearch(cms, retry, maxToolCalls),
		Weather:     capability.NewGeminiWeatherLookup(cms, retry),
		Attractions: capability.NewGeminiAttractionsSearch(cms, retry, maxToolCalls),
		Budget:      capability.NewGeminiBudgetPlanner(cms, retry, maxToolCalls),
		Narrative:   capability.NewGeminiNarrative(cms, retry, stages.RegenTargets()),
	}

	return NewPlanner(adapters, cfg.RunRepo, engine.Config{
		CycleLimit:   cfg.Pipeline.CycleLimit,
		StageTimeout: stageTimeout,
	})
}

// NewPlanner wires the stage graph around the given adapters. Routing table
// validation happens here, so a misconfigured graph never reaches Submit.
func NewPlanner(a Adapters, repo model.RunRepository, cfg engine.Config) (*Planner, error) {
	stageSet := []engine.Stage{
		stages.NewGate(a.Classifier),
		stages.NewAnalyzer(a.Analyzer),
		stages.NewLodging(a.Lodging),
		stages.NewWeather(a.Weather),
		stages.NewAttractions(a.Attractions),
		stages.NewBudget(a.Budget),
		stages.NewItinerary(),
		stages.NewSummary(a.Narrative),
	}

	exec, err := engine.New(stageSet, stages.Routing(), stages.Ownership(), cfg)
	if err != nil {
		return nil, err
	}

	return &Planner{exec: exec, repo: repo}, nil
}

// Submit runs the whole pipeline for one user message and returns the
// terminal state record. A fatal condition returns the error instead, never
// a record with placeholder values. Persistence is best-effort and never
// fails a completed run.
func (p *Planner) Submit(ctx context.Context, userMessage, runID string) (*model.TripState, error) {
	if runID == "" {
		runID = uuid.NewString()
	}

	state := model.NewTripState(runID, userMessage)

	final, trace, err := p.exec.Run(ctx, state, stages.StageGate)
	if err != nil {
		logx.Error().
			Str("run_id", runID).
			Err(err).
			Msg("Run failed")
		return nil, err
	}

	if p.repo != nil {
		record := &model.RunRecord{
			RunID:       runID,
			State:       final,
			Trace:       trace,
			CompletedAt: time.Now().UTC(),
		}
		if err := p.repo.SaveRecord(ctx, record); err != nil {
			logx.Error().
				Str("run_id", runID).
				Err(err).
				Msg("Failed to persist run record")
		}
	}

	logx.Debug().
		Str("run_id", runID).
		Int("stages", len(trace)).
		Float64("total_cost_usd", final.TotalCostUSD).
		Msg("Run completed")

	return final, nil
}
