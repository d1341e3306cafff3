// Package queue defines message payloads exchanged over the message broker.
package queue

// StatusChangedEvent is published whenever the store accepts a status
// transition. It carries enough information for downstream consumers to
// build an audit trail or trigger notifications without querying the
// authoritative store again.
type StatusChangedEvent struct {
	Kind       string `json:"kind"`
	ItemID     string `json:"item_id"`
	CafeID     string `json:"cafe_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorRole  string `json:"actor_role"`
	OccurredAt string `json:"occurred_at"`
}
