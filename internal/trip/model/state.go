package model

import (
	"github.com/cloudwego/eino/schema"
)

// Gate labels. The classifier capability must return exactly one of these;
// anything else aborts the run.
const (
	LabelInScope    = "TRAVEL"
	LabelOutOfScope = "NOT_TRAVEL"
)

// Lodging is one structured lodging entry returned by the lodging capability.
type Lodging struct {
	Name          string  `json:"name"`
	PricePerNight float64 `json:"price_per_night"`
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"review_count"`
	URL           string  `json:"url"`
}

// TripParams holds the trip parameters extracted from the user message by the
// analyzer capability. Destination and Days are required; the rest stay nil
// when the message does not mention them.
type TripParams struct {
	Destination               string   `json:"destination"`
	Budget                    *float64 `json:"budget"`
	Currency                  *string  `json:"native_currency"`
	Days                      int      `json:"days"`
	GroupSize                 *int     `json:"group_size"`
	ActivityPreferences       *string  `json:"activity_preferences"`
	AccommodationType         *string  `json:"accommodation_type"`
	DietaryRestrictions       *string  `json:"dietary_restrictions"`
	TransportationPreferences *string  `json:"transportation_preferences"`
}

// TripState is the shared state record for one pipeline run. It is created
// once per incoming request and flows by reference through every stage, but
// stages never mutate it directly: each stage returns a Delta and the
// executor performs the only writes.
//
// Field ownership: every field below Messages is written by exactly one
// stage. A stage re-entered through regeneration may overwrite its own field
// and nothing else.
type TripState struct {
	RunID string `json:"run_id"`

	// Conversation log. Append-only; the first element is the triggering
	// user request.
	Messages []*schema.Message `json:"messages"`

	// Gate stage output.
	Classification *string `json:"classification,omitempty"`

	// Analyzer stage output, populated exactly once.
	Params *TripParams `json:"params,omitempty"`

	// Domain stage outputs. Lodgings is an empty slice (never nil) once the
	// lodging stage has run, even on adapter failure.
	Lodgings        []Lodging `json:"lodgings,omitempty"`
	Weather         *string   `json:"weather,omitempty"`
	Attractions     *string   `json:"attractions,omitempty"`
	BudgetBreakdown *string   `json:"budget_breakdown,omitempty"`

	// Assembly stage outputs.
	Itinerary *string `json:"itinerary,omitempty"`
	Summary   *string `json:"summary,omitempty"`

	// Accumulated LLM usage cost across capability calls for this run.
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// NewTripState builds the record for one run, seeded with the triggering
// user message.
func NewTripState(runID, userMessage string) *TripState {
	return &TripState{
		RunID:    runID,
		Messages: []*schema.Message{schema.UserMessage(userMessage)},
	}
}

// LatestMessage returns the most recent conversation turn, or nil when the
// log is empty.
func (s *TripState) LatestMessage() *schema.Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// InScope reports whether the gate classified the run as travel-related.
func (s *TripState) InScope() bool {
	return s.Classification != nil && *s.Classification == LabelInScope
}
