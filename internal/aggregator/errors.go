// Package aggregator defines error values for the expected failure modes
// of the combined listing and transition flow. These sentinels let the
// handler layer map each condition to its own HTTP status with errors.Is,
// the same way the rest of the codebase distinguishes failure scenarios.
package aggregator

import "errors"

// ErrForbiddenTransition is returned when the requested status is not
// reachable from the record's current status for the acting role. The
// record is left untouched; the wrapped message carries the engine's
// refusal reason for the operator.
var ErrForbiddenTransition = errors.New("forbidden transition")

// ErrMissingCafeContext is returned when neither the record nor the
// acting operator resolves to a cafe tenant. It is raised before any
// network call so the round-trip is never wasted.
var ErrMissingCafeContext = errors.New("no resolvable cafe for transition")

// ErrUnknownItem is returned when a transition names an (id, kind) pair
// that is not in the view's current collection.
var ErrUnknownItem = errors.New("unknown item")
