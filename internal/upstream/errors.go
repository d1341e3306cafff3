// Package upstream implements the client for the remote authoritative
// store. This file defines the error values shared by its operations.
// Sentinel values let higher layers distinguish failure scenarios with
// errors.Is: a rejected credential must be surfaced as an authorization
// failure, never folded into transition-denial semantics.
package upstream

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the upstream store rejects the bearer
// credential (HTTP 401 or 403). It is propagated as-is and never retried
// automatically.
var ErrUnauthorized = errors.New("upstream rejected credential")

// SubmitError reports a failed mutating call. It carries the upstream
// HTTP status and the detail message from the error body so operators see
// the store's own explanation.
type SubmitError struct {
	StatusCode int    // upstream HTTP status
	Detail     string // upstream {detail} message, may be empty
}

func (e *SubmitError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("upstream submit failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream submit failed with status %d: %s", e.StatusCode, e.Detail)
}
