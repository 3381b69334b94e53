package capability

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/tripflow-poc/server/internal/trip/model"
)

// Context builders assemble the narrowed state view each capability sees.
// Tagged sections keep the structure obvious to the model without leaking
// fields a capability has no business reading.

func writeSection(b *strings.Builder, tag, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	b.WriteString("<" + tag + ">\n")
	b.WriteString(content)
	b.WriteString("\n</" + tag + ">\n")
}

func paramsSection(p *model.TripParams) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "destination: %s\n", p.Destination)
	fmt.Fprintf(&b, "days: %d\n", p.Days)
	if p.Budget != nil {
		currency := "USD"
		if p.Currency != nil {
			currency = *p.Currency
		}
		fmt.Fprintf(&b, "budget: %.2f %s\n", *p.Budget, currency)
	}
	if p.GroupSize != nil {
		fmt.Fprintf(&b, "group_size: %d\n", *p.GroupSize)
	}
	if p.ActivityPreferences != nil {
		fmt.Fprintf(&b, "activity_preferences: %s\n", *p.ActivityPreferences)
	}
	if p.AccommodationType != nil {
		fmt.Fprintf(&b, "accommodation_type: %s\n", *p.AccommodationType)
	}
	if p.DietaryRestrictions != nil {
		fmt.Fprintf(&b, "dietary_restrictions: %s\n", *p.DietaryRestrictions)
	}
	if p.TransportationPreferences != nil {
		fmt.Fprintf(&b, "transportation_preferences: %s\n", *p.TransportationPreferences)
	}
	return b.String()
}

func lodgingsSection(lodgings []model.Lodging) string {
	if len(lodgings) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range lodgings {
		fmt.Fprintf(&b, "- %s: %.2f USD/night, rating %.1f (%d reviews)\n",
			l.Name, l.PricePerNight, l.Rating, l.ReviewCount)
	}
	return b.String()
}

// buildRequestContext is the view for lodging, weather, and attractions:
// the triggering request plus the extracted parameters.
func buildRequestContext(s *model.TripState) string {
	var b strings.Builder
	if len(s.Messages) > 0 && s.Messages[0] != nil {
		writeSection(&b, "user_request", s.Messages[0].Content)
	}
	writeSection(&b, "trip_parameters", paramsSection(s.Params))
	return b.String()
}

// buildBudgetContext adds the cost-bearing results the budget capability
// must allocate against.
func buildBudgetContext(s *model.TripState) string {
	var b strings.Builder
	b.WriteString(buildRequestContext(s))
	writeSection(&b, "lodging_options", lodgingsSection(s.Lodgings))
	if s.Attractions != nil {
		writeSection(&b, "attractions", *s.Attractions)
	}
	return b.String()
}

// buildSummaryContext is the full-state view the narrative capability
// consumes.
func buildSummaryContext(s *model.TripState) string {
	var b strings.Builder
	b.WriteString(buildBudgetContext(s))
	if s.Weather != nil {
		writeSection(&b, "weather", *s.Weather)
	}
	if s.BudgetBreakdown != nil {
		writeSection(&b, "budget_breakdown", *s.BudgetBreakdown)
	}
	if s.Itinerary != nil {
		writeSection(&b, "itinerary", *s.Itinerary)
	}
	return b.String()
}

// userMessage wraps a context string as the single user turn of a capability
// call.
func userMessage(context string) *schema.Message {
	return schema.UserMessage(context)
}
