package parsers

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tripflow-poc/server/internal/trip/model"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

// basic safety limits to avoid pathological model outputs
const (
	maxContentLen = 64 * 1024 // 64KB
	maxLodgings   = 50
	maxErrSnippet = 200
)

// rawLodging mirrors the JSON the lodging capability is prompted to emit.
// Loose types here; validation happens field by field below.
type rawLodging struct {
	Name          string   `json:"name"`
	PricePerNight *float64 `json:"price_per_night"`
	Rating        *float64 `json:"rating"`
	ReviewCount   *int     `json:"review_count"`
	URL           string   `json:"url"`
}

// ParseLodgings parses the lodging capability's JSON list output into
// structured entries. Individually malformed entries are skipped with a log;
// an output that is not a JSON list at all is an error the stage converts
// into an AdapterError{MalformedOutput}.
func ParseLodgings(content string) ([]model.Lodging, error) {
	content = stripCodeFence(content)
	if content == "" {
		return nil, fmt.Errorf("empty lodging output")
	}
	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "lodging_parser").
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		return nil, fmt.Errorf("lodging output too large")
	}

	var raws []rawLodging
	if err := json.Unmarshal([]byte(content), &raws); err != nil {
		return nil, fmt.Errorf("lodging output not a json list: %w (snippet: %s)",
			err, safeSnippet(content))
	}

	if len(raws) > maxLodgings {
		logx.Warn().
			Str("component", "lodging_parser").
			Int("count", len(raws)).
			Int("max", maxLodgings).
			Msg("lodging entries capped")
		raws = raws[:maxLodgings]
	}

	lodgings := make([]model.Lodging, 0, len(raws))
	for i, r := range raws {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			logx.Warn().Str("component", "lodging_parser").Int("index", i).Msg("entry missing name; skipped")
			continue
		}
		if r.PricePerNight == nil || !validNumber(*r.PricePerNight) || *r.PricePerNight < 0 {
			logx.Warn().Str("component", "lodging_parser").Int("index", i).Msg("entry missing or invalid price; skipped")
			continue
		}

		l := model.Lodging{
			Name:          name,
			PricePerNight: *r.PricePerNight,
			URL:           strings.TrimSpace(r.URL),
		}
		if r.Rating != nil && validNumber(*r.Rating) && *r.Rating >= 0 && *r.Rating <= 5 {
			l.Rating = *r.Rating
		}
		if r.ReviewCount != nil && *r.ReviewCount >= 0 {
			l.ReviewCount = *r.ReviewCount
		}
		lodgings = append(lodgings, l)
	}

	return lodgings, nil
}

func validNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// stripCodeFence removes a surrounding markdown fence the model sometimes
// wraps JSON in, despite prompting.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
