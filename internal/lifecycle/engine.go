package lifecycle

import "strings"

// Role classifies the actor requesting a transition. Operators (cafe
// admins, chain managers, front-of-house staff) may approve or reject
// pending records; customers may only withdraw their own bookings.
type Role string

const (
	RoleStaff    Role = "staff"    // admin, manager or barista accounts
	RoleCustomer Role = "customer" // customer accounts
)

// staffClaims lists the JWT role claim values that map to RoleStaff.
var staffClaims = map[string]bool{
	"admin":   true,
	"manager": true,
	"barista": true,
	"staff":   true,
}

// RoleFromClaim maps a JWT role claim onto the two-way classification the
// transition table uses. Unknown or empty claims are treated as customer,
// the least privileged role.
func RoleFromClaim(claim string) Role {
	if staffClaims[strings.ToLower(strings.TrimSpace(claim))] {
		return RoleStaff
	}
	return RoleCustomer
}

// transitions is the role-aware transition table. A target status is legal
// exactly when it appears in the set for the (current, role) pair.
// Cancelled and rejected have no entry: they are absorbing for every role.
var transitions = map[Role]map[Status]map[Status]bool{
	RoleStaff: {
		StatusPending:   {StatusConfirmed: true, StatusRejected: true},
		StatusConfirmed: {StatusCancelled: true},
		StatusCompleted: {StatusCancelled: true},
	},
	RoleCustomer: {
		StatusPending:   {StatusCancelled: true},
		StatusConfirmed: {StatusCancelled: true},
	},
}

// Decision is the outcome of consulting the transition table. When Allowed
// is true, Next holds the status the record moves to; otherwise Reason
// explains the refusal. Denial is an expected domain condition, not an
// error: callers translate it to their own error taxonomy.
type Decision struct {
	Allowed bool   // whether the transition may proceed
	Next    Status // status after the transition, when allowed
	Reason  string // human-readable refusal, when denied
}

// Decide reports whether role may move a record from current to target.
// It is pure and deterministic: same inputs, same decision, no side
// effects. The table is consulted directly; anything not listed is denied.
func Decide(current Status, role Role, target Status) Decision {
	if Terminal(current) {
		return Decision{Reason: "status " + string(current) + " is terminal"}
	}
	if current == target {
		return Decision{Reason: "already " + string(current)}
	}
	if allowed := transitions[role][current]; allowed[target] {
		return Decision{Allowed: true, Next: target}
	}
	return Decision{Reason: string(role) + " may not move " + string(current) + " to " + string(target)}
}
