package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// ===================================
// Attractions Search Tool
// ===================================

type SearchAttractionsInput struct {
	Destination string `json:"destination"`
	Interest    string `json:"interest,omitempty"`
	MaxResults  int    `json:"max_results,omitempty"`
}

type Attraction struct {
	Name         string  `json:"name"`
	Kind         string  `json:"kind"`
	EntryFeeUSD  float64 `json:"entry_fee_usd"`
	TypicalHours float64 `json:"typical_hours"`
}

type SearchAttractionsOutput struct {
	Attractions []Attraction `json:"attractions"`
	Total       int          `json:"total"`
}

func createSearchAttractionsTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchAttractions,
			Desc: "Search points of interest for a destination city, optionally filtered by interest (art, culture, food, nature, nightlife). Returns name, kind, typical entry fee in USD, and typical visit duration in hours.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"destination": {
					Type:     "string",
					Desc:     "Destination city name, e.g. Paris, Tokyo, Bangkok.",
					Required: true,
				},
				"interest": {
					Type: "string",
					Desc: "Optional interest filter. One of: art, culture, food, nature, nightlife.",
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of entries to return (default: 6, max: 12)",
				},
			}),
		},
		func(ctx context.Context, in *SearchAttractionsInput) (*SearchAttractionsOutput, error) {
			if in.Destination == "" {
				return nil, fmt.Errorf("destination is required")
			}
			if in.MaxResults <= 0 {
				in.MaxResults = 6
			}
			if in.MaxResults > 12 {
				in.MaxResults = 12
			}

			key := strings.ToLower(strings.TrimSpace(in.Destination))
			catalog, ok := attractionCatalog[key]
			if !ok {
				catalog = attractionCatalog["generic"]
			}

			interest := strings.ToLower(strings.TrimSpace(in.Interest))
			var matched []Attraction
			for _, a := range catalog {
				if interest != "" && !strings.Contains(strings.ToLower(a.Kind), interest) {
					continue
				}
				matched = append(matched, a)
			}
			if len(matched) == 0 {
				matched = catalog
			}
			if len(matched) > in.MaxResults {
				matched = matched[:in.MaxResults]
			}

			return &SearchAttractionsOutput{Attractions: matched, Total: len(matched)}, nil
		},
	)
}

var attractionCatalog = map[string][]Attraction{
	"paris": {
		{Name: "Louvre Museum", Kind: "art, culture", EntryFeeUSD: 24, TypicalHours: 3.5},
		{Name: "Musée d'Orsay", Kind: "art", EntryFeeUSD: 18, TypicalHours: 2.5},
		{Name: "Eiffel Tower", Kind: "culture, landmark", EntryFeeUSD: 30, TypicalHours: 2},
		{Name: "Montmartre & Sacré-Cœur", Kind: "culture", EntryFeeUSD: 0, TypicalHours: 2.5},
		{Name: "Seine Dinner Cruise", Kind: "food, nightlife", EntryFeeUSD: 95, TypicalHours: 2.5},
		{Name: "Luxembourg Gardens", Kind: "nature", EntryFeeUSD: 0, TypicalHours: 1.5},
		{Name: "Centre Pompidou", Kind: "art", EntryFeeUSD: 17, TypicalHours: 2},
	},
	"tokyo": {
		{Name: "Senso-ji Temple", Kind: "culture", EntryFeeUSD: 0, TypicalHours: 1.5},
		{Name: "teamLab Planets", Kind: "art", EntryFeeUSD: 27, TypicalHours: 2},
		{Name: "Tsukiji Outer Market", Kind: "food", EntryFeeUSD: 0, TypicalHours: 2},
		{Name: "Meiji Jingu", Kind: "culture, nature", EntryFeeUSD: 0, TypicalHours: 1.5},
		{Name: "Shinjuku Golden Gai", Kind: "nightlife", EntryFeeUSD: 0, TypicalHours: 3},
	},
	"bangkok": {
		{Name: "Grand Palace", Kind: "culture", EntryFeeUSD: 14, TypicalHours: 2.5},
		{Name: "Wat Arun", Kind: "culture", EntryFeeUSD: 3, TypicalHours: 1.5},
		{Name: "Chatuchak Weekend Market", Kind: "food, culture", EntryFeeUSD: 0, TypicalHours: 3},
		{Name: "Lumpini Park", Kind: "nature", EntryFeeUSD: 0, TypicalHours: 1.5},
	},
	"generic": {
		{Name: "Old Town Walking Tour", Kind: "culture", EntryFeeUSD: 15, TypicalHours: 2.5},
		{Name: "City Art Museum", Kind: "art", EntryFeeUSD: 12, TypicalHours: 2},
		{Name: "Central Market Food Crawl", Kind: "food", EntryFeeUSD: 25, TypicalHours: 2},
		{Name: "Riverside Park", Kind: "nature", EntryFeeUSD: 0, TypicalHours: 1.5},
	},
}
