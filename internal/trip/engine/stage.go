package engine

import (
	"context"

	"github.com/tripflow-poc/server/internal/trip/model"
)

// End is the distinguished routing target that terminates a run.
const End = "end"

// Route is a stage's explicit routing decision. The zero value means "no
// opinion, follow the routing table"; only the summary stage returns a
// non-zero Route, carrying the regeneration target or End.
type Route struct {
	Goto string
}

// Stage is one named unit of pipeline work. Execute reads the shared state,
// calls at most one capability adapter, and returns the writes it wants
// applied plus an optional routing decision. Stages never mutate the state
// they are handed; the executor performs the only writes.
//
// A returned error is fatal for the run. Recoverable adapter failures must be
// absorbed inside Execute with a safe default written through the delta and
// Degraded set on it.
type Stage interface {
	Name() string
	Execute(ctx context.Context, s *model.TripState) (*Outcome, error)
}

// Outcome bundles a stage execution's writes and routing decision.
type Outcome struct {
	Delta *model.Delta
	Route Route

	// Degraded marks a run where an adapter failure was absorbed with a
	// safe default. Recorded in the trace, does not affect routing.
	Degraded bool
}
