package parsers

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ControlSignal is the routing decision embedded in the summary capability's
// output: regenerate a specific stage, or finish. The zero value means "no
// recognizable signal", which callers treat as terminal.
type ControlSignal struct {
	Target string
	Final  bool
}

// controlLine is the structured form the summary prompt asks for on the last
// output line: CONTROL: {"action":"regenerate","target":"attractions"} or
// CONTROL: {"action":"final"}.
type controlLine struct {
	Action string `json:"action"`
	Target string `json:"target"`
}

const controlPrefix = "CONTROL:"

var regenPattern = regexp.MustCompile(`regenerate:([a-z_]+)`)

// ParseControlSignal extracts the regeneration signal from a narrative
// summary. The structured control line is preferred; the permissive
// regenerate:<stage> / "final" text patterns are kept as a fallback for
// outputs that ignore the format. An unrecognizable signal is not an error,
// it degrades to termination.
func ParseControlSignal(content string) ControlSignal {
	if sig, ok := parseStructuredControl(content); ok {
		return sig
	}

	if m := regenPattern.FindStringSubmatch(content); m != nil {
		return ControlSignal{Target: m[1]}
	}
	if strings.Contains(strings.ToLower(content), "final") {
		return ControlSignal{Final: true}
	}
	return ControlSignal{}
}

func parseStructuredControl(content string) (ControlSignal, bool) {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, controlPrefix) {
			// only the trailing non-empty line may carry the control
			return ControlSignal{}, false
		}

		var ctl controlLine
		payload := strings.TrimSpace(strings.TrimPrefix(line, controlPrefix))
		if err := json.Unmarshal([]byte(payload), &ctl); err != nil {
			return ControlSignal{}, false
		}
		switch ctl.Action {
		case "regenerate":
			target := strings.TrimSpace(ctl.Target)
			if target == "" {
				return ControlSignal{}, false
			}
			return ControlSignal{Target: target}, true
		case "final":
			return ControlSignal{Final: true}, true
		default:
			return ControlSignal{}, false
		}
	}
	return ControlSignal{}, false
}

// StripControlLine removes the trailing structured control line so the
// narrative stored on the state stays clean prose.
func StripControlLine(content string) string {
	trimmed := strings.TrimRight(content, " \t\n")
	idx := strings.LastIndex(trimmed, "\n")
	last := trimmed
	if idx >= 0 {
		last = trimmed[idx+1:]
	}
	if strings.HasPrefix(strings.TrimSpace(last), controlPrefix) {
		if idx < 0 {
			return ""
		}
		return strings.TrimRight(trimmed[:idx], " \t\n")
	}
	return content
}
