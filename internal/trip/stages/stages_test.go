package stages_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/capability"
	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
	"github.com/tripflow-poc/server/internal/trip/parsers"
	"github.com/tripflow-poc/server/internal/trip/stages"
)

// Scripted adapter stubs. Each returns its queued results in order, repeating
// the last one when the script runs out.

type stubClassifier struct {
	label string
	err   error
}

func (c *stubClassifier) Classify(context.Context, string) (string, float64, error) {
	return c.label, 0.001, c.err
}

type stubAnalyzer struct {
	params *model.TripParams
	err    error
}

func (a *stubAnalyzer) Analyze(context.Context, string) (*model.TripParams, float64, error) {
	return a.params, 0.002, a.err
}

type stubLodgingSearch struct {
	lodgings []model.Lodging
	err      error
}

func (l *stubLodgingSearch) Search(context.Context, *model.TripState) ([]model.Lodging, float64, error) {
	return l.lodgings, 0.003, l.err
}

type textAdapter struct {
	text  string
	err   error
	calls int
}

func (a *textAdapter) invoke() (string, float64, error) {
	a.calls++
	return a.text, 0.003, a.err
}

type stubWeather struct{ textAdapter }

func (w *stubWeather) Lookup(context.Context, *model.TripState) (string, float64, error) {
	return w.invoke()
}

type stubAttractions struct{ textAdapter }

func (a *stubAttractions) Search(context.Context, *model.TripState) (string, float64, error) {
	return a.invoke()
}

type stubBudget struct{ textAdapter }

func (b *stubBudget) Breakdown(context.Context, *model.TripState) (string, float64, error) {
	return b.invoke()
}

type stubNarrative struct {
	results []*capability.SummaryResult
	err     error
	calls   int
}

func (n *stubNarrative) Summarize(context.Context, *model.TripState) (*capability.SummaryResult, float64, error) {
	n.calls++
	if n.err != nil {
		return nil, 0, n.err
	}
	idx := n.calls - 1
	if idx >= len(n.results) {
		idx = len(n.results) - 1
	}
	return n.results[idx], 0.005, nil
}

func tripParams() *model.TripParams {
	budget := 2500.0
	return &model.TripParams{Destination: "Paris", Days: 5, Budget: &budget}
}

func seededState(params *model.TripParams) *model.TripState {
	s := model.NewTripState("run-1", "plan my trip")
	s.Params = params
	return s
}

func transportErr(capname string) error {
	return errx.NewAdapterError(capname, errx.AdapterTransport, errors.New("connection reset"))
}

func TestGate(t *testing.T) {
	t.Run("writes classification", func(t *testing.T) {
		gate := stages.NewGate(&stubClassifier{label: model.LabelInScope})
		out, err := gate.Execute(context.Background(), model.NewTripState("run-1", "trip to Paris"))
		require.NoError(t, err)
		assert.Equal(t, model.LabelInScope, *out.Delta.Classification)
		assert.False(t, out.Degraded)
	})

	t.Run("adapter failure is fatal", func(t *testing.T) {
		gate := stages.NewGate(&stubClassifier{err: transportErr("classifier")})
		_, err := gate.Execute(context.Background(), model.NewTripState("run-1", "trip to Paris"))
		require.Error(t, err)
		_, ok := errx.AsAdapterError(err)
		assert.True(t, ok, "the gate must not absorb adapter failures")
	})

	t.Run("invalid label is fatal", func(t *testing.T) {
		gate := stages.NewGate(&stubClassifier{err: errx.ErrInvalidClassification})
		_, err := gate.Execute(context.Background(), model.NewTripState("run-1", "trip to Paris"))
		require.ErrorIs(t, err, errx.ErrInvalidClassification)
	})
}

func TestAnalyzer(t *testing.T) {
	t.Run("writes params", func(t *testing.T) {
		analyzer := stages.NewAnalyzer(&stubAnalyzer{params: tripParams()})
		out, err := analyzer.Execute(context.Background(), model.NewTripState("run-1", "5 days in Paris"))
		require.NoError(t, err)
		assert.Equal(t, "Paris", out.Delta.Params.Destination)
	})

	t.Run("extraction failure is fatal", func(t *testing.T) {
		analyzer := stages.NewAnalyzer(&stubAnalyzer{err: errx.ErrExtractionFailed})
		_, err := analyzer.Execute(context.Background(), model.NewTripState("run-1", "hmm"))
		require.ErrorIs(t, err, errx.ErrExtractionFailed)
	})
}

func TestLodging_FailSoft(t *testing.T) {
	stage := stages.NewLodging(&stubLodgingSearch{err: transportErr("lodging_search")})
	out, err := stage.Execute(context.Background(), seededState(tripParams()))
	require.NoError(t, err, "domain stages absorb adapter failures")
	assert.True(t, out.Degraded)
	require.NotNil(t, out.Delta.Lodgings)
	assert.Empty(t, *out.Delta.Lodgings, "safe default is an empty list, never nil")
}

func TestWeather_FailSoft(t *testing.T) {
	t.Run("success writes forecast", func(t *testing.T) {
		stage := stages.NewWeather(&stubWeather{textAdapter{text: "mild and sunny"}})
		out, err := stage.Execute(context.Background(), seededState(tripParams()))
		require.NoError(t, err)
		assert.Equal(t, "mild and sunny", *out.Delta.Weather)
	})

	t.Run("failure leaves field unset", func(t *testing.T) {
		stage := stages.NewWeather(&stubWeather{textAdapter{err: transportErr("weather")}})
		out, err := stage.Execute(context.Background(), seededState(tripParams()))
		require.NoError(t, err)
		assert.True(t, out.Degraded)
		assert.Nil(t, out.Delta.Weather)
	})

	t.Run("cancellation stays fatal", func(t *testing.T) {
		stage := stages.NewWeather(&stubWeather{textAdapter{err: context.Canceled}})
		_, err := stage.Execute(context.Background(), seededState(tripParams()))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestBudget_FailSoft(t *testing.T) {
	stage := stages.NewBudget(&stubBudget{textAdapter{err: transportErr("budget")}})
	out, err := stage.Execute(context.Background(), seededState(tripParams()))
	require.NoError(t, err)
	assert.True(t, out.Degraded)
	assert.Nil(t, out.Delta.BudgetBreakdown)
}

func TestSummary(t *testing.T) {
	t.Run("terminal on final signal", func(t *testing.T) {
		stage := stages.NewSummary(&stubNarrative{results: []*capability.SummaryResult{
			{Text: "Enjoy Paris!", Control: parsers.ControlSignal{Final: true}},
		}})
		out, err := stage.Execute(context.Background(), seededState(tripParams()))
		require.NoError(t, err)
		assert.Equal(t, engine.End, out.Route.Goto)
		assert.Equal(t, "Enjoy Paris!", *out.Delta.Summary)
		require.Len(t, out.Delta.AppendMessages, 1)
	})

	t.Run("terminal when no signal", func(t *testing.T) {
		stage := stages.NewSummary(&stubNarrative{results: []*capability.SummaryResult{
			{Text: "Enjoy!"},
		}})
		out, err := stage.Execute(context.Background(), seededState(tripParams()))
		require.NoError(t, err)
		assert.Equal(t, engine.End, out.Route.Goto)
	})

	t.Run("routes to legal regeneration target", func(t *testing.T) {
		stage := stages.NewSummary(&stubNarrative{results: []*capability.SummaryResult{
			{Text: "Budget looks thin.", Control: parsers.ControlSignal{Target: stages.StageBudget}},
		}})
		out, err := stage.Execute(context.Background(), seededState(tripParams()))
		require.NoError(t, err)
		assert.Equal(t, stages.StageBudget, out.Route.Goto)
	})

	t.Run("unknown target degrades to terminal", func(t *testing.T) {
		stage := stages.NewSummary(&stubNarrative{results: []*capability.SummaryResult{
			{Text: "Redo the gate.", Control: parsers.ControlSignal{Target: stages.StageGate}},
		}})
		out, err := stage.Execute(context.Background(), seededState(tripParams()))
		require.NoError(t, err)
		assert.Equal(t, engine.End, out.Route.Goto)
	})

	t.Run("adapter failure degrades to terminal without summary", func(t *testing.T) {
		stage := stages.NewSummary(&stubNarrative{err: transportErr("narrative")})
		out, err := stage.Execute(context.Background(), seededState(tripParams()))
		require.NoError(t, err)
		assert.True(t, out.Degraded)
		assert.Equal(t, engine.End, out.Route.Goto)
		assert.Nil(t, out.Delta.Summary)
	})
}

func TestItinerary(t *testing.T) {
	t.Run("requires params", func(t *testing.T) {
		stage := stages.NewItinerary()
		_, err := stage.Execute(context.Background(), model.NewTripState("run-1", "hi"))
		require.Error(t, err)
	})

	t.Run("assembles plan from state", func(t *testing.T) {
		s := seededState(tripParams())
		s.Lodgings = []model.Lodging{
			{Name: "Hotel du Nord", PricePerNight: 142.5, Rating: 4.4},
			{Name: "Le Petit Rêve", PricePerNight: 98, Rating: 4.1},
		}
		weather := "Mild, highs around 21C\nPack a light jacket"
		s.Weather = &weather
		attractions := "- Louvre Museum\n- Marché des Enfants Rouges\n- Montmartre walk"
		s.Attractions = &attractions
		budget := "Lodging: 490\nFood: 400"
		s.BudgetBreakdown = &budget

		stage := stages.NewItinerary()
		out, err := stage.Execute(context.Background(), s)
		require.NoError(t, err)

		plan := *out.Delta.Itinerary
		assert.Contains(t, plan, "5-day itinerary for Paris")
		assert.Contains(t, plan, "Le Petit Rêve", "the cheapest lodging is picked as base")
		assert.Contains(t, plan, "Mild, highs around 21C")
		assert.NotContains(t, plan, "Pack a light jacket", "weather outlook keeps only the first line")
		assert.Contains(t, plan, "Louvre Museum")
		assert.Contains(t, plan, "Day 5:")
		assert.Contains(t, plan, "Budget notes:")
	})

	t.Run("degraded state still yields a plan", func(t *testing.T) {
		s := seededState(tripParams())
		s.Lodgings = []model.Lodging{}

		stage := stages.NewItinerary()
		out, err := stage.Execute(context.Background(), s)
		require.NoError(t, err)
		assert.Contains(t, *out.Delta.Itinerary, "Day 1:")
	})
}

func TestRoutingConfiguration(t *testing.T) {
	// The production table must validate against the production stage set.
	stageSet := []engine.Stage{
		stages.NewGate(&stubClassifier{label: model.LabelInScope}),
		stages.NewAnalyzer(&stubAnalyzer{params: tripParams()}),
		stages.NewLodging(&stubLodgingSearch{}),
		stages.NewWeather(&stubWeather{}),
		stages.NewAttractions(&stubAttractions{}),
		stages.NewBudget(&stubBudget{}),
		stages.NewItinerary(),
		stages.NewSummary(&stubNarrative{results: []*capability.SummaryResult{{Text: "ok"}}}),
	}

	_, err := engine.New(stageSet, stages.Routing(), stages.Ownership(), engine.Config{})
	require.NoError(t, err)
}

func buildPipeline(t *testing.T, cls *stubClassifier, an *stubAnalyzer, lodging *stubLodgingSearch,
	weather *stubWeather, attractions *stubAttractions, budget *stubBudget, narrative *stubNarrative) *engine.Executor {
	t.Helper()
	exec, err := engine.New([]engine.Stage{
		stages.NewGate(cls),
		stages.NewAnalyzer(an),
		stages.NewLodging(lodging),
		stages.NewWeather(weather),
		stages.NewAttractions(attractions),
		stages.NewBudget(budget),
		stages.NewItinerary(),
		stages.NewSummary(narrative),
	}, stages.Routing(), stages.Ownership(), engine.Config{CycleLimit: 3})
	require.NoError(t, err)
	return exec
}

func TestPipeline_HappyPath(t *testing.T) {
	narrative := &stubNarrative{results: []*capability.SummaryResult{
		{Text: "Five lovely days in Paris.", Control: parsers.ControlSignal{Final: true}},
	}}
	exec := buildPipeline(t,
		&stubClassifier{label: model.LabelInScope},
		&stubAnalyzer{params: tripParams()},
		&stubLodgingSearch{lodgings: []model.Lodging{{Name: "Hotel du Nord", PricePerNight: 142.5}}},
		&stubWeather{textAdapter{text: "mild"}},
		&stubAttractions{textAdapter{text: "- Louvre\n- Montmartre"}},
		&stubBudget{textAdapter{text: "Lodging: 700"}},
		narrative,
	)

	state, trace, err := exec.Run(context.Background(), model.NewTripState("run-1", "5 days in Paris please"), stages.StageGate)
	require.NoError(t, err)

	assert.True(t, state.InScope())
	assert.Equal(t, "Paris", state.Params.Destination)
	assert.Len(t, state.Lodgings, 1)
	assert.NotNil(t, state.Weather)
	assert.NotNil(t, state.Attractions)
	assert.NotNil(t, state.BudgetBreakdown)
	assert.NotNil(t, state.Itinerary)
	assert.Equal(t, "Five lovely days in Paris.", *state.Summary)
	assert.Greater(t, state.TotalCostUSD, 0.0)

	// user message in, summary message out
	require.Len(t, state.Messages, 2)

	require.Len(t, trace, 8)
	assert.Equal(t, stages.StageGate, trace[0].Stage)
	assert.Equal(t, stages.StageSummary, trace[7].Stage)
	for _, entry := range trace {
		assert.Equal(t, model.OutcomeOK, entry.Outcome)
	}
}

func TestPipeline_OutOfScopeShortCircuits(t *testing.T) {
	an := &stubAnalyzer{params: tripParams()}
	narrative := &stubNarrative{results: []*capability.SummaryResult{{Text: "unused"}}}
	exec := buildPipeline(t,
		&stubClassifier{label: model.LabelOutOfScope},
		an,
		&stubLodgingSearch{},
		&stubWeather{},
		&stubAttractions{},
		&stubBudget{},
		narrative,
	)

	state, trace, err := exec.Run(context.Background(), model.NewTripState("run-1", "recommend a laptop"), stages.StageGate)
	require.NoError(t, err)

	assert.False(t, state.InScope())
	assert.Nil(t, state.Params)
	assert.Nil(t, state.Summary)
	assert.Equal(t, 0, narrative.calls)
	require.Len(t, trace, 1)
	assert.Equal(t, stages.StageGate, trace[0].Stage)
}

func TestPipeline_Regeneration(t *testing.T) {
	budget := &stubBudget{textAdapter{text: "Lodging: 700"}}
	narrative := &stubNarrative{results: []*capability.SummaryResult{
		{Text: "Draft.", Control: parsers.ControlSignal{Target: stages.StageBudget}},
		{Text: "Final plan.", Control: parsers.ControlSignal{Final: true}},
	}}
	exec := buildPipeline(t,
		&stubClassifier{label: model.LabelInScope},
		&stubAnalyzer{params: tripParams()},
		&stubLodgingSearch{},
		&stubWeather{textAdapter{text: "mild"}},
		&stubAttractions{textAdapter{text: "- Louvre"}},
		budget,
		narrative,
	)

	state, trace, err := exec.Run(context.Background(), model.NewTripState("run-1", "5 days in Paris"), stages.StageGate)
	require.NoError(t, err)

	assert.Equal(t, 2, budget.calls, "regeneration re-runs the budget stage")
	assert.Equal(t, 2, narrative.calls)
	assert.Equal(t, "Final plan.", *state.Summary, "the regenerated summary overwrites the draft")

	// gate..summary, then budget..summary again
	require.Len(t, trace, 8+3)

	// both summary turns were appended; the log never shrinks
	require.Len(t, state.Messages, 3)
	assert.Equal(t, "Draft.", state.Messages[1].Content)
	assert.Equal(t, "Final plan.", state.Messages[2].Content)
}

func TestPipeline_RegenerationLoopHitsCycleLimit(t *testing.T) {
	narrative := &stubNarrative{results: []*capability.SummaryResult{
		{Text: "Again.", Control: parsers.ControlSignal{Target: stages.StageBudget}},
	}}
	exec := buildPipeline(t,
		&stubClassifier{label: model.LabelInScope},
		&stubAnalyzer{params: tripParams()},
		&stubLodgingSearch{},
		&stubWeather{},
		&stubAttractions{},
		&stubBudget{},
		narrative,
	)

	_, _, err := exec.Run(context.Background(), model.NewTripState("run-1", "5 days in Paris"), stages.StageGate)
	require.ErrorIs(t, err, errx.ErrCycleLimitExceeded)
}

func TestPipeline_DegradedStagesStillComplete(t *testing.T) {
	narrative := &stubNarrative{results: []*capability.SummaryResult{
		{Text: "Best effort plan.", Control: parsers.ControlSignal{Final: true}},
	}}
	exec := buildPipeline(t,
		&stubClassifier{label: model.LabelInScope},
		&stubAnalyzer{params: tripParams()},
		&stubLodgingSearch{err: transportErr("lodging_search")},
		&stubWeather{textAdapter{err: transportErr("weather")}},
		&stubAttractions{textAdapter{text: "- Louvre"}},
		&stubBudget{textAdapter{text: "Lodging: 700"}},
		narrative,
	)

	state, trace, err := exec.Run(context.Background(), model.NewTripState("run-1", "5 days in Paris"), stages.StageGate)
	require.NoError(t, err, "absorbed failures must not abort the run")

	require.NotNil(t, state.Lodgings)
	assert.Empty(t, state.Lodgings)
	assert.Nil(t, state.Weather)
	assert.NotNil(t, state.Itinerary)
	assert.Equal(t, "Best effort plan.", *state.Summary)

	degraded := 0
	for _, entry := range trace {
		if entry.Outcome == model.OutcomeDegraded {
			degraded++
		}
	}
	assert.Equal(t, 2, degraded)
}

func TestPipeline_MalformedLodgingOutputYieldsEmptyList(t *testing.T) {
	narrative := &stubNarrative{results: []*capability.SummaryResult{
		{Text: "Plan ready.", Control: parsers.ControlSignal{Final: true}},
	}}
	exec := buildPipeline(t,
		&stubClassifier{label: model.LabelInScope},
		&stubAnalyzer{params: tripParams()},
		&stubLodgingSearch{err: errx.NewAdapterError("lodging", errx.AdapterMalformedOutput, errors.New("not a json list"))},
		&stubWeather{textAdapter{text: "mild"}},
		&stubAttractions{textAdapter{text: "- Louvre"}},
		&stubBudget{textAdapter{text: "Lodging: 700"}},
		narrative,
	)

	state, _, err := exec.Run(context.Background(), model.NewTripState("run-1", "5 days in Paris"), stages.StageGate)
	require.NoError(t, err)
	require.NotNil(t, state.Lodgings)
	assert.Empty(t, state.Lodgings)
	assert.NotNil(t, state.Itinerary)
	assert.Equal(t, "Plan ready.", *state.Summary)
}

func TestPipeline_DeterministicRerunsMatch(t *testing.T) {
	build := func() *engine.Executor {
		return buildPipeline(t,
			&stubClassifier{label: model.LabelInScope},
			&stubAnalyzer{params: tripParams()},
			&stubLodgingSearch{lodgings: []model.Lodging{{Name: "Hotel du Nord", PricePerNight: 142.5}}},
			&stubWeather{textAdapter{text: "mild"}},
			&stubAttractions{textAdapter{text: "- Louvre"}},
			&stubBudget{textAdapter{text: "Lodging: 700"}},
			&stubNarrative{results: []*capability.SummaryResult{
				{Text: "Plan.", Control: parsers.ControlSignal{Final: true}},
			}},
		)
	}

	first, _, err := build().Run(context.Background(), model.NewTripState("run-1", "5 days in Paris"), stages.StageGate)
	require.NoError(t, err)
	second, _, err := build().Run(context.Background(), model.NewTripState("run-1", "5 days in Paris"), stages.StageGate)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical input plus deterministic adapters must reproduce the record")
}

func TestPipeline_FatalAnalyzerAbortsRun(t *testing.T) {
	lodging := &stubLodgingSearch{}
	exec := buildPipeline(t,
		&stubClassifier{label: model.LabelInScope},
		&stubAnalyzer{err: errx.ErrExtractionFailed},
		lodging,
		&stubWeather{},
		&stubAttractions{},
		&stubBudget{},
		&stubNarrative{results: []*capability.SummaryResult{{Text: "unused"}}},
	)

	state, trace, err := exec.Run(context.Background(), model.NewTripState("run-1", "???"), stages.StageGate)
	require.ErrorIs(t, err, errx.ErrExtractionFailed)
	assert.Nil(t, state)
	require.Len(t, trace, 2)
	assert.Equal(t, model.OutcomeFatal, trace[1].Outcome)
}
