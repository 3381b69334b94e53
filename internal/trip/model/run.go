package model

import (
	"context"
	"time"
)

// Trace outcomes recorded per executed stage.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded" // adapter failure absorbed with a safe default
	OutcomeFatal    = "fatal"
)

// TraceEntry records one stage execution for observability. The ordered trace
// is what makes regeneration cycles debuggable after the fact.
type TraceEntry struct {
	Stage     string    `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   string    `json:"outcome"`
}

// RunRecord is the persisted shape of one pipeline run: the full state
// snapshot at termination plus the execution trace.
type RunRecord struct {
	RunID       string       `json:"run_id"`
	State       *TripState   `json:"state"`
	Trace       []TraceEntry `json:"trace"`
	CompletedAt time.Time    `json:"completed_at"`
}

// RunRepository persists terminated runs. Persistence is best-effort from the
// pipeline's point of view; correctness never depends on it.
type RunRepository interface {
	// SaveRecord stores the terminal snapshot and trace for a run.
	SaveRecord(ctx context.Context, record *RunRecord) error

	// LoadRecord retrieves a previously stored run.
	LoadRecord(ctx context.Context, runID string) (*RunRecord, error)

	// DeleteRecord removes a stored run.
	DeleteRecord(ctx context.Context, runID string) error
}
