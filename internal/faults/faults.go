// Package faults defines the failure kinds shared by every validation in the
// planning pipeline. Call sites wrap one of these sentinels with well/phase
// identifying context and callers match with errors.Is. There is no recovery
// path: the first wrapped fault aborts the planning run.
package faults

import "errors"

var (
	// ErrConfiguration indicates a missing or malformed required input field.
	ErrConfiguration = errors.New("configuration error")
	// ErrRangeViolation indicates a value outside its engineering-accepted bounds.
	ErrRangeViolation = errors.New("value outside engineering range")
	// ErrTimelineInconsistency indicates a phase gap/overlap, a non-monotonic
	// well count, or a step/phase duration mismatch.
	ErrTimelineInconsistency = errors.New("timeline inconsistency")
	// ErrWellCountMismatch indicates configured and resolved well counts differ.
	ErrWellCountMismatch = errors.New("well count mismatch")
	// ErrIndexComputation indicates a non-positive or degenerate well index or
	// equivalent radius.
	ErrIndexComputation = errors.New("well index computation error")
)

// Kind returns the short taxonomy name for err, or "" when err does not wrap
// one of the planning fault kinds. Used for operator-facing diagnostics.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "ConfigurationError"
	case errors.Is(err, ErrRangeViolation):
		return "RangeViolation"
	case errors.Is(err, ErrTimelineInconsistency):
		return "TimelineInconsistency"
	case errors.Is(err, ErrWellCountMismatch):
		return "WellCountMismatch"
	case errors.Is(err, ErrIndexComputation):
		return "IndexComputationError"
	default:
		return ""
	}
}
