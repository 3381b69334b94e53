package engine

import (
	"fmt"
	"sort"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
)

// Predicate maps the current state to a named branch label.
type Predicate func(s *model.TripState) (string, error)

// branch pairs a predicate with its label to stage mapping.
type branch struct {
	predicate Predicate
	targets   map[string]string
}

// RoutingTable holds every legal transition of the pipeline: fixed edges,
// conditional branches, and the per-stage sets of legal dynamic
// (regeneration) targets. It is immutable after Validate.
type RoutingTable struct {
	fixed    map[string]string
	branches map[string]*branch
	dynamic  map[string]map[string]bool
}

func NewRoutingTable() *RoutingTable {
	return &RoutingTable{
		fixed:    make(map[string]string),
		branches: make(map[string]*branch),
		dynamic:  make(map[string]map[string]bool),
	}
}

// AddEdge declares a fixed transition from one stage to the next.
func (t *RoutingTable) AddEdge(from, to string) *RoutingTable {
	t.fixed[from] = to
	return t
}

// AddBranch declares a conditional transition: the predicate picks a branch
// label and targets maps every label it may produce to a stage (or End).
func (t *RoutingTable) AddBranch(from string, p Predicate, targets map[string]string) *RoutingTable {
	t.branches[from] = &branch{predicate: p, targets: targets}
	return t
}

// AllowDynamic declares the stages a given stage may route to explicitly at
// runtime. End is always a legal dynamic target.
func (t *RoutingTable) AllowDynamic(from string, targets ...string) *RoutingTable {
	set, ok := t.dynamic[from]
	if !ok {
		set = make(map[string]bool)
		t.dynamic[from] = set
	}
	for _, target := range targets {
		set[target] = true
	}
	return t
}

// Validate fails fast on configuration bugs: edges or branch targets that
// reference unknown stages, and stages carrying both a fixed edge and a
// branch. Called once at executor construction, never during traversal.
func (t *RoutingTable) Validate(known map[string]Stage) error {
	exists := func(name string) bool {
		if name == End {
			return true
		}
		_, ok := known[name]
		return ok
	}

	for from, to := range t.fixed {
		if !exists(from) || !exists(to) {
			return fmt.Errorf("%w: edge %s -> %s references unknown stage", errx.ErrRoutingTable, from, to)
		}
		if _, dup := t.branches[from]; dup {
			return fmt.Errorf("%w: stage %s has both a fixed edge and a branch", errx.ErrRoutingTable, from)
		}
	}

	for from, br := range t.branches {
		if !exists(from) {
			return fmt.Errorf("%w: branch source %s is unknown", errx.ErrRoutingTable, from)
		}
		if len(br.targets) == 0 {
			return fmt.Errorf("%w: branch at %s has no targets", errx.ErrRoutingTable, from)
		}
		for label, to := range br.targets {
			if !exists(to) {
				return fmt.Errorf("%w: branch %s label %q targets unknown stage %s", errx.ErrRoutingTable, from, label, to)
			}
		}
	}

	for from, set := range t.dynamic {
		if !exists(from) {
			return fmt.Errorf("%w: dynamic source %s is unknown", errx.ErrRoutingTable, from)
		}
		for target := range set {
			if !exists(target) {
				return fmt.Errorf("%w: dynamic target %s from %s is unknown", errx.ErrRoutingTable, target, from)
			}
		}
	}

	return nil
}

// Next resolves the static transition out of a stage. A branch label the
// table does not know is a configuration bug that slipped past Validate
// (predicates are opaque), surfaced as ErrRoutingTable.
func (t *RoutingTable) Next(from string, s *model.TripState) (string, error) {
	if br, ok := t.branches[from]; ok {
		label, err := br.predicate(s)
		if err != nil {
			return "", fmt.Errorf("branch predicate at %s: %w", from, err)
		}
		to, ok := br.targets[label]
		if !ok {
			return "", fmt.Errorf("%w: branch at %s produced unmapped label %q",
				errx.ErrRoutingTable, from, label)
		}
		return to, nil
	}

	if to, ok := t.fixed[from]; ok {
		return to, nil
	}

	return "", fmt.Errorf("%w: stage %s has no outgoing transition",
		errx.ErrRoutingTable, from)
}

// DynamicAllowed reports whether a stage may explicitly route to target.
func (t *RoutingTable) DynamicAllowed(from, target string) bool {
	if target == End {
		return true
	}
	return t.dynamic[from][target]
}

// DynamicTargets lists the legal dynamic targets of a stage, sorted.
func (t *RoutingTable) DynamicTargets(from string) []string {
	targets := make([]string, 0, len(t.dynamic[from]))
	for target := range t.dynamic[from] {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	return targets
}
