// Package lifecycle holds the canonical booking status enumeration and the
// pure decision logic that validates status transitions. It performs no
// I/O; the aggregation layer consults it before any network call so that
// illegal transitions are refused without a wasted round-trip.
package lifecycle

import (
	"fmt"
	"strings"
)

// Status is the canonical lifecycle state of a bookable record. The wire
// uses two spellings for the awaiting-decision state ("pending" and
// "pending_approval"); Parse folds both into StatusPending so the engine
// only ever reasons about one state.
type Status string

const (
	StatusPending   Status = "pending_approval" // awaiting an operator decision
	StatusConfirmed Status = "confirmed"        // approved by an operator
	StatusCompleted Status = "completed"        // fulfilled
	StatusCancelled Status = "cancelled"        // withdrawn; terminal
	StatusRejected  Status = "rejected"         // refused by an operator; terminal
)

// pendingAlias is the short spelling some upstream records and screens use
// for the awaiting-decision state. It is accepted on input and normalized
// away; every emitted status uses the long form.
const pendingAlias = "pending"

// All returns every canonical status in a stable order.
func All() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected}
}

// Parse validates a raw status string, folding the "pending" alias into
// StatusPending. Unknown values return an error so that records with
// unrecognized states never enter the transition logic silently.
func Parse(s string) (Status, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == pendingAlias {
		return StatusPending, nil
	}
	st := Status(v)
	switch st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown status: %q", s)
}

// Terminal reports whether no further transition out of the status is
// legal for any role. Terminal records persist for history views; they are
// never deleted by this layer.
func Terminal(s Status) bool {
	return s == StatusCancelled || s == StatusRejected
}
