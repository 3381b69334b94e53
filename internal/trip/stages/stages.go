package stages

import (
	"fmt"

	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
)

// Stage names. These are routing identifiers, referenced by the routing
// table and the regeneration control signal.
const (
	StageGate        = "gate"
	StageAnalyzer    = "analyzer"
	StageLodging     = "lodging"
	StageWeather     = "weather"
	StageAttractions = "attractions"
	StageBudget      = "budget"
	StageItinerary   = "itinerary"
	StageSummary     = "summary"
)

// RegenTargets is the legal regeneration target set of the summary stage.
func RegenTargets() []string {
	return []string{StageAttractions, StageBudget, StageItinerary}
}

// Ownership declares the single writer of every owned state field.
func Ownership() engine.Ownership {
	return engine.Ownership{
		engine.FieldClassification:  StageGate,
		engine.FieldParams:          StageAnalyzer,
		engine.FieldLodgings:        StageLodging,
		engine.FieldWeather:         StageWeather,
		engine.FieldAttractions:     StageAttractions,
		engine.FieldBudgetBreakdown: StageBudget,
		engine.FieldItinerary:       StageItinerary,
		engine.FieldSummary:         StageSummary,
	}
}

// Routing builds the full transition table of the pipeline: the gate branch,
// the linear domain chain, and the summary stage's legal dynamic targets.
func Routing() *engine.RoutingTable {
	return engine.NewRoutingTable().
		AddBranch(StageGate, gateBranch, map[string]string{
			model.LabelInScope:    StageAnalyzer,
			model.LabelOutOfScope: engine.End,
		}).
		AddEdge(StageAnalyzer, StageLodging).
		AddEdge(StageLodging, StageWeather).
		AddEdge(StageWeather, StageAttractions).
		AddEdge(StageAttractions, StageBudget).
		AddEdge(StageBudget, StageItinerary).
		AddEdge(StageItinerary, StageSummary).
		AllowDynamic(StageSummary, RegenTargets()...)
}

// gateBranch routes on the classification the gate stage just wrote. A
// missing classification here means the gate stage broke its contract.
func gateBranch(s *model.TripState) (string, error) {
	if s.Classification == nil {
		return "", fmt.Errorf("gate stage left no classification")
	}
	return *s.Classification, nil
}
