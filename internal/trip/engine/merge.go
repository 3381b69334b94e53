package engine

import (
	"fmt"

	"github.com/tripflow-poc/server/internal/trip/model"
)

// Field names the state fields subject to single-writer ownership.
type Field string

const (
	FieldClassification  Field = "classification"
	FieldParams          Field = "params"
	FieldLodgings        Field = "lodgings"
	FieldWeather         Field = "weather"
	FieldAttractions     Field = "attractions"
	FieldBudgetBreakdown Field = "budget_breakdown"
	FieldItinerary       Field = "itinerary"
	FieldSummary         Field = "summary"
)

// Ownership maps each owned field to the only stage allowed to write it.
// Messages and the cost accumulator are exempt: every stage may append
// messages and report cost.
type Ownership map[Field]string

func (o Ownership) check(f Field, stage string) error {
	owner, ok := o[f]
	if !ok {
		return fmt.Errorf("field %s has no declared owner", f)
	}
	if owner != stage {
		return fmt.Errorf("stage %s wrote field %s owned by %s", stage, f, owner)
	}
	return nil
}

// merge applies a stage's delta to the shared state. This is the only
// mutation path for TripState during a run. Messages are append-only;
// every other write is checked against the ownership map. A re-entered
// stage overwrites its own field, which is deliberate.
func merge(s *model.TripState, stage string, d *model.Delta, owners Ownership) error {
	if d.Empty() {
		return nil
	}

	s.Messages = append(s.Messages, d.AppendMessages...)
	s.TotalCostUSD += d.CostUSD

	if d.Classification != nil {
		if err := owners.check(FieldClassification, stage); err != nil {
			return err
		}
		s.Classification = d.Classification
	}
	if d.Params != nil {
		if err := owners.check(FieldParams, stage); err != nil {
			return err
		}
		s.Params = d.Params
	}
	if d.Lodgings != nil {
		if err := owners.check(FieldLodgings, stage); err != nil {
			return err
		}
		lodgings := *d.Lodgings
		if lodgings == nil {
			lodgings = []model.Lodging{}
		}
		s.Lodgings = lodgings
	}
	if d.Weather != nil {
		if err := owners.check(FieldWeather, stage); err != nil {
			return err
		}
		s.Weather = d.Weather
	}
	if d.Attractions != nil {
		if err := owners.check(FieldAttractions, stage); err != nil {
			return err
		}
		s.Attractions = d.Attractions
	}
	if d.BudgetBreakdown != nil {
		if err := owners.check(FieldBudgetBreakdown, stage); err != nil {
			return err
		}
		s.BudgetBreakdown = d.BudgetBreakdown
	}
	if d.Itinerary != nil {
		if err := owners.check(FieldItinerary, stage); err != nil {
			return err
		}
		s.Itinerary = d.Itinerary
	}
	if d.Summary != nil {
		if err := owners.check(FieldSummary, stage); err != nil {
			return err
		}
		s.Summary = d.Summary
	}

	return nil
}
