package model

import (
	"github.com/cloudwego/eino/schema"
)

// Delta is the set of writes a single stage execution wants applied to the
// shared state. Stages return a Delta instead of touching TripState so the
// executor owns the single, auditable mutation path.
//
// Pointer fields distinguish "leave untouched" (nil) from "set". Lodgings is
// a pointer to a slice so a stage can explicitly write an empty result.
type Delta struct {
	// AppendMessages are added to the conversation log in order.
	AppendMessages []*schema.Message

	Classification  *string
	Params          *TripParams
	Lodgings        *[]Lodging
	Weather         *string
	Attractions     *string
	BudgetBreakdown *string
	Itinerary       *string
	Summary         *string

	// CostUSD is accumulated onto the run total, not overwritten.
	CostUSD float64
}

// Empty reports whether the delta carries no writes at all.
func (d *Delta) Empty() bool {
	return d == nil || (len(d.AppendMessages) == 0 &&
		d.Classification == nil &&
		d.Params == nil &&
		d.Lodgings == nil &&
		d.Weather == nil &&
		d.Attractions == nil &&
		d.BudgetBreakdown == nil &&
		d.Itinerary == nil &&
		d.Summary == nil &&
		d.CostUSD == 0)
}
