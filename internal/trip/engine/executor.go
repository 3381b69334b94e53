package engine

import (
	"context"
	"fmt"
	"time"

	errx "github.com/tripflow-poc/server/internal/core/error"
	"github.com/tripflow-poc/server/internal/trip/model"
	logx "github.com/tripflow-poc/server/pkg/logger"
)

const DefaultCycleLimit = 3

// Config tunes the run loop.
type Config struct {
	// CycleLimit bounds how many times any single stage may be re-entered
	// through regeneration. Zero or negative falls back to DefaultCycleLimit.
	CycleLimit int

	// StageTimeout caps one stage execution, including its capability call
	// and retries. Zero disables the per-stage deadline.
	StageTimeout time.Duration
}

func (c Config) cycleLimit() int {
	if c.CycleLimit <= 0 {
		return DefaultCycleLimit
	}
	return c.CycleLimit
}

// Executor drives one run through the stage graph: invoke the current stage,
// merge its delta, resolve the next stage, stop at End. Exactly one stage
// executes at a time; the next stage never starts before the previous delta
// is merged.
type Executor struct {
	stages map[string]Stage
	table  *RoutingTable
	owners Ownership
	cfg    Config
}

// New wires the executor. The routing table is validated here so that
// configuration bugs fail at construction, not mid-run.
func New(stages []Stage, table *RoutingTable, owners Ownership, cfg Config) (*Executor, error) {
	byName := make(map[string]Stage, len(stages))
	for _, st := range stages {
		if st == nil || st.Name() == "" {
			return nil, fmt.Errorf("%w: nil or unnamed stage", errx.ErrRoutingTable)
		}
		if _, dup := byName[st.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate stage %s", errx.ErrRoutingTable, st.Name())
		}
		byName[st.Name()] = st
	}

	if err := table.Validate(byName); err != nil {
		return nil, err
	}

	return &Executor{stages: byName, table: table, owners: owners, cfg: cfg}, nil
}

// Run executes the pipeline from the entry stage until a terminal routing
// decision. On success the returned state is complete (possibly with safe
// empty defaults); on a fatal condition the error is returned instead,
// together with the trace collected so far.
func (e *Executor) Run(ctx context.Context, state *model.TripState, entry string) (*model.TripState, []model.TraceEntry, error) {
	log := logx.With("executor")

	var trace []model.TraceEntry
	visits := make(map[string]int)
	limit := e.cfg.cycleLimit()

	current := entry
	for current != End {
		// Cancellation is honored only between stage boundaries so a
		// half-executed stage never leaves a partially merged record.
		if err := ctx.Err(); err != nil {
			return nil, trace, err
		}

		stage, ok := e.stages[current]
		if !ok {
			return nil, trace, fmt.Errorf("%w: no stage registered for %s", errx.ErrRoutingTable, current)
		}

		visits[current]++
		if visits[current] > 1+limit {
			log.Error().
				Str("run_id", state.RunID).
				Str("stage", current).
				Int("limit", limit).
				Msg("Regeneration cycle limit exceeded")
			trace = append(trace, model.TraceEntry{Stage: current, Timestamp: time.Now().UTC(), Outcome: model.OutcomeFatal})
			return nil, trace, fmt.Errorf("stage %s: %w", current, errx.ErrCycleLimitExceeded)
		}

		log.Debug().
			Str("run_id", state.RunID).
			Str("stage", current).
			Int("visit", visits[current]).
			Msg("Executing stage")

		outcome, err := e.execute(ctx, stage, state)
		if err != nil {
			trace = append(trace, model.TraceEntry{Stage: current, Timestamp: time.Now().UTC(), Outcome: model.OutcomeFatal})
			return nil, trace, fmt.Errorf("stage %s: %w", current, err)
		}

		if err := merge(state, current, outcome.Delta, e.owners); err != nil {
			trace = append(trace, model.TraceEntry{Stage: current, Timestamp: time.Now().UTC(), Outcome: model.OutcomeFatal})
			return nil, trace, fmt.Errorf("stage %s: merge: %w", current, err)
		}

		result := model.OutcomeOK
		if outcome.Degraded {
			result = model.OutcomeDegraded
		}
		trace = append(trace, model.TraceEntry{Stage: current, Timestamp: time.Now().UTC(), Outcome: result})

		next, err := e.resolve(current, outcome.Route, state)
		if err != nil {
			return nil, trace, err
		}
		current = next
	}

	return state, trace, nil
}

// execute runs one stage under the per-stage deadline.
func (e *Executor) execute(ctx context.Context, stage Stage, state *model.TripState) (*Outcome, error) {
	if e.cfg.StageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.StageTimeout)
		defer cancel()
	}

	outcome, err := stage.Execute(ctx, state)
	if err != nil {
		return nil, err
	}
	if outcome == nil {
		outcome = &Outcome{}
	}
	return outcome, nil
}

// resolve turns a stage's routing decision into the next stage id. An
// explicit Route overrides the static table, but only towards targets the
// table declared legal for that stage; anything else degrades to End, the
// same way an unrecognized regeneration signal does.
func (e *Executor) resolve(current string, route Route, state *model.TripState) (string, error) {
	if route.Goto != "" {
		if e.table.DynamicAllowed(current, route.Goto) {
			return route.Goto, nil
		}
		log := logx.With("executor")
		log.Warn().
			Str("run_id", state.RunID).
			Str("stage", current).
			Str("target", route.Goto).
			Msg("Dynamic route target not in legal set; terminating")
		return End, nil
	}

	return e.table.Next(current, state)
}
