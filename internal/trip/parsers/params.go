package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tripflow-poc/server/internal/trip/model"
)

// ParseTripParams parses the analyzer capability's strict-JSON output into
// trip parameters and validates the structural prerequisites. Any failure
// here is fatal for the run (ErrExtractionFailed at the stage boundary):
// the pipeline cannot proceed without a destination and a day count.
func ParseTripParams(content string) (*model.TripParams, error) {
	content = stripCodeFence(content)
	if content == "" {
		return nil, fmt.Errorf("empty analyzer output")
	}
	if len(content) > maxContentLen {
		return nil, fmt.Errorf("analyzer output too large")
	}

	var params model.TripParams
	dec := json.NewDecoder(strings.NewReader(content))
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("analyzer output not a json object: %w (snippet: %s)",
			err, safeSnippet(content))
	}

	params.Destination = strings.TrimSpace(params.Destination)
	if params.Destination == "" {
		return nil, fmt.Errorf("missing destination")
	}
	if params.Days <= 0 {
		return nil, fmt.Errorf("missing or invalid day count: %d", params.Days)
	}
	if params.Budget != nil && *params.Budget < 0 {
		return nil, fmt.Errorf("negative budget: %v", *params.Budget)
	}
	if params.GroupSize != nil && *params.GroupSize <= 0 {
		params.GroupSize = nil
	}
	if params.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*params.Currency))
		if c == "" {
			params.Currency = nil
		} else {
			params.Currency = &c
		}
	}

	return &params, nil
}
