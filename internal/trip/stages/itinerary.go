package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripflow-poc/server/internal/trip/engine"
	"github.com/tripflow-poc/server/internal/trip/model"
)

// Itinerary assembles the day-by-day plan from whatever the earlier stages
// produced. Pure function of state: no capability call, no failure mode
// beyond missing parameters, which the analyzer guarantees by this point.
type Itinerary struct{}

func NewItinerary() *Itinerary {
	return &Itinerary{}
}

func (i *Itinerary) Name() string { return StageItinerary }

func (i *Itinerary) Execute(ctx context.Context, s *model.TripState) (*engine.Outcome, error) {
	if s.Params == nil {
		return nil, fmt.Errorf("itinerary requires extracted trip parameters")
	}

	plan := buildItinerary(s)
	return &engine.Outcome{
		Delta: &model.Delta{Itinerary: &plan},
	}, nil
}

func buildItinerary(s *model.TripState) string {
	p := s.Params
	var b strings.Builder

	fmt.Fprintf(&b, "%d-day itinerary for %s\n", p.Days, p.Destination)

	if len(s.Lodgings) > 0 {
		pick := cheapestLodging(s.Lodgings)
		fmt.Fprintf(&b, "Base: %s (%.2f USD/night", pick.Name, pick.PricePerNight)
		if pick.Rating > 0 {
			fmt.Fprintf(&b, ", rating %.1f", pick.Rating)
		}
		b.WriteString(")\n")
	}
	if s.Weather != nil {
		fmt.Fprintf(&b, "Weather outlook: %s\n", firstLine(*s.Weather))
	}
	b.WriteString("\n")

	highlights := attractionHighlights(s.Attractions, p.Days)
	for day := 1; day <= p.Days; day++ {
		fmt.Fprintf(&b, "Day %d:\n", day)
		switch day {
		case 1:
			b.WriteString("  - Arrival, check-in, and a first walk around the neighborhood\n")
		case p.Days:
			b.WriteString("  - Last stroll, souvenirs, and departure\n")
		}
		if h := highlights[day-1]; h != "" {
			fmt.Fprintf(&b, "  - %s\n", h)
		}
		if day != 1 && day != p.Days && highlights[day-1] == "" {
			b.WriteString("  - Free exploring at your own pace\n")
		}
	}

	if s.BudgetBreakdown != nil {
		b.WriteString("\nBudget notes:\n")
		b.WriteString(indent(*s.BudgetBreakdown, "  "))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func cheapestLodging(lodgings []model.Lodging) model.Lodging {
	pick := lodgings[0]
	for _, l := range lodgings[1:] {
		if l.PricePerNight < pick.PricePerNight {
			pick = l
		}
	}
	return pick
}

// attractionHighlights spreads the attraction overview's lines across the
// trip days, one highlight per day.
func attractionHighlights(overview *string, days int) []string {
	highlights := make([]string, days)
	if overview == nil {
		return highlights
	}

	var lines []string
	for _, line := range strings.Split(*overview, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
		if line != "" {
			lines = append(lines, line)
		}
	}

	for i := 0; i < days && i < len(lines); i++ {
		highlights[i] = lines[i]
	}
	return highlights
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

var _ engine.Stage = (*Itinerary)(nil)
