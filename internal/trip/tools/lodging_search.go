package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/tripflow-poc/server/internal/trip/model"
)

// ===================================
// Lodging Search Tool
// ===================================

type SearchLodgingInput struct {
	Destination string  `json:"destination"`
	MaxPrice    float64 `json:"max_price,omitempty"`
	MaxResults  int     `json:"max_results,omitempty"`
}

type SearchLodgingOutput struct {
	Lodgings []model.Lodging `json:"lodgings"`
	Total    int             `json:"total"`
}

func createSearchLodgingTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchLodging,
			Desc: "Search lodging options for a destination city. Returns structured entries with name, nightly price in USD, guest rating, review count, and a booking link. Use this tool whenever you need hotel or accommodation options.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"destination": {
					Type:     "string",
					Desc:     "Destination city name, e.g. Paris, Tokyo, Bangkok.",
					Required: true,
				},
				"max_price": {
					Type: "number",
					Desc: "Optional nightly price ceiling in USD.",
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of entries to return (default: 5, max: 10)",
				},
			}),
		},
		func(ctx context.Context, in *SearchLodgingInput) (*SearchLodgingOutput, error) {
			if in.Destination == "" {
				return nil, fmt.Errorf("destination is required")
			}

			if in.MaxResults <= 0 {
				in.MaxResults = 5
			}
			if in.MaxResults > 10 {
				in.MaxResults = 10
			}

			key := strings.ToLower(strings.TrimSpace(in.Destination))
			catalog, ok := lodgingCatalog[key]
			if !ok {
				// fall back to a generic set so the capability still has
				// something to price against
				catalog = lodgingCatalog["generic"]
			}

			var matched []model.Lodging
			for _, l := range catalog {
				if in.MaxPrice > 0 && l.PricePerNight > in.MaxPrice {
					continue
				}
				matched = append(matched, l)
			}

			if len(matched) > in.MaxResults {
				matched = matched[:in.MaxResults]
			}

			return &SearchLodgingOutput{Lodgings: matched, Total: len(matched)}, nil
		},
	)
}

// lodgingCatalog is curated inventory keyed by lowercase city. A live
// deployment swaps this for a booking-search backend behind the same tool.
var lodgingCatalog = map[string][]model.Lodging{
	"paris": {
		{Name: "Hôtel des Grands Boulevards", PricePerNight: 185, Rating: 4.5, ReviewCount: 1240, URL: "https://example.com/paris/grands-boulevards"},
		{Name: "Le Marais Boutique Stay", PricePerNight: 142, Rating: 4.3, ReviewCount: 860, URL: "https://example.com/paris/marais-boutique"},
		{Name: "Hôtel Saint-Germain Charme", PricePerNight: 210, Rating: 4.6, ReviewCount: 2012, URL: "https://example.com/paris/saint-germain"},
		{Name: "Montmartre Budget Rooms", PricePerNight: 89, Rating: 4.0, ReviewCount: 433, URL: "https://example.com/paris/montmartre-budget"},
		{Name: "Rive Gauche Apartments", PricePerNight: 156, Rating: 4.4, ReviewCount: 678, URL: "https://example.com/paris/rive-gauche"},
	},
	"tokyo": {
		{Name: "Shinjuku Granbell Hotel", PricePerNight: 130, Rating: 4.2, ReviewCount: 3110, URL: "https://example.com/tokyo/shinjuku-granbell"},
		{Name: "Asakusa Riverside Ryokan", PricePerNight: 98, Rating: 4.5, ReviewCount: 940, URL: "https://example.com/tokyo/asakusa-ryokan"},
		{Name: "Ginza Capsule Premium", PricePerNight: 45, Rating: 3.9, ReviewCount: 1520, URL: "https://example.com/tokyo/ginza-capsule"},
		{Name: "Shibuya Stream Excel", PricePerNight: 220, Rating: 4.6, ReviewCount: 2780, URL: "https://example.com/tokyo/shibuya-stream"},
	},
	"bangkok": {
		{Name: "Riverside Mandarin House", PricePerNight: 75, Rating: 4.4, ReviewCount: 2150, URL: "https://example.com/bangkok/riverside-mandarin"},
		{Name: "Sukhumvit City Loft", PricePerNight: 52, Rating: 4.1, ReviewCount: 1330, URL: "https://example.com/bangkok/sukhumvit-loft"},
		{Name: "Old Town Heritage Inn", PricePerNight: 38, Rating: 4.0, ReviewCount: 610, URL: "https://example.com/bangkok/old-town-inn"},
	},
	"generic": {
		{Name: "Central Plaza Hotel", PricePerNight: 120, Rating: 4.1, ReviewCount: 820, URL: "https://example.com/generic/central-plaza"},
		{Name: "Old Quarter Guesthouse", PricePerNight: 64, Rating: 4.0, ReviewCount: 410, URL: "https://example.com/generic/old-quarter"},
		{Name: "Grand Station Suites", PricePerNight: 175, Rating: 4.4, ReviewCount: 1290, URL: "https://example.com/generic/grand-station"},
	},
}
