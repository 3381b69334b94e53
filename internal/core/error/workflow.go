package errx

import (
	"errors"
	"fmt"
)

// Sentinel conditions for the trip planning workflow. Fatal conditions halt
// a run; everything else is absorbed at the stage boundary with a safe
// default for the affected field.
var (
	// ErrInvalidClassification: the gate capability produced neither
	// recognized label. Fatal.
	ErrInvalidClassification = errors.New("invalid travel classification")

	// ErrExtractionFailed: required trip parameters could not be derived
	// from the user message. Fatal.
	ErrExtractionFailed = errors.New("trip parameter extraction failed")

	// ErrCycleLimitExceeded: a regeneration loop re-entered the same stage
	// beyond the configured bound. Fatal.
	ErrCycleLimitExceeded = errors.New("stage cycle limit exceeded")

	// ErrRoutingTable: a branch has no entry in the routing map, or an edge
	// references an unknown stage. Configuration bug, surfaced at
	// construction time.
	ErrRoutingTable = errors.New("routing table misconfigured")
)

// AdapterFailureKind classifies how an external capability call failed.
type AdapterFailureKind string

const (
	AdapterTimeout         AdapterFailureKind = "timeout"
	AdapterTransport       AdapterFailureKind = "transport"
	AdapterMalformedOutput AdapterFailureKind = "malformed_output"
	AdapterRefused         AdapterFailureKind = "refused"
)

// AdapterError wraps a failure raised by a capability adapter. Domain stages
// absorb these; the gate and analyzer stages treat them as fatal.
type AdapterError struct {
	Capability string
	Kind       AdapterFailureKind
	Err        error
}

func (e *AdapterError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("adapter %s failed: %s", e.Capability, e.Kind)
	}
	return fmt.Sprintf("adapter %s failed (%s): %v", e.Capability, e.Kind, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure is worth retrying within the
// per-invocation retry budget.
func (e *AdapterError) Transient() bool {
	return e.Kind == AdapterTimeout || e.Kind == AdapterTransport
}

// NewAdapterError builds an AdapterError for the given capability.
func NewAdapterError(capability string, kind AdapterFailureKind, err error) *AdapterError {
	return &AdapterError{Capability: capability, Kind: kind, Err: err}
}

// AsAdapterError extracts an AdapterError from an error chain.
func AsAdapterError(err error) (*AdapterError, bool) {
	var ae *AdapterError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
