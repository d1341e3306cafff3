package model

import (
	"github.com/iliyamo/cafe-reservation-hub/internal/kind"
	"github.com/iliyamo/cafe-reservation-hub/internal/lifecycle"
)

// Occurrence is the calendar slot of a bookable record: a date and a
// time-of-day, kept as the upstream strings. Dates arrive in sortable
// yyyy-mm-dd form, so lexicographic comparison of Key values orders items
// chronologically without this layer doing calendar conversion (the
// Gregorian/Jalali rendering is a presentation concern).
type Occurrence struct {
	Date string // calendar date, e.g. "2026-08-29"
	Time string // time of day, e.g. "18:30"
}

// Key returns a lexicographically sortable representation of the slot.
func (o Occurrence) Key() string { return o.Date + " " + o.Time }

// TimeClass buckets an occurrence relative to a reference date.
type TimeClass int

const (
	Past TimeClass = iota - 1
	Today
	Future
)

// Classify compares the occurrence date with a reference date (same
// sortable string form). Records without a date classify as Today so they
// stay visible in operator views rather than vanishing into a bucket.
func (o Occurrence) Classify(today string) TimeClass {
	switch {
	case o.Date == "" || o.Date == today:
		return Today
	case o.Date < today:
		return Past
	default:
		return Future
	}
}

// BookableItem is the unified, kind-tagged view of either a reservation or
// an order that the aggregation layer produces. The pair (Kind, ID) is the
// aggregation key: identifiers are only unique within their kind, so two
// records with the same ID but different kinds never collide.
//
// Items are mutated only through accepted lifecycle transitions and are
// never deleted here; a terminal status ends the tracked life but the
// record persists for history views.
type BookableItem struct {
	ID              string           // opaque identifier, unique within Kind
	Kind            kind.Kind        // resource category
	CafeID          string           // owning tenant; required for transitions
	Status          lifecycle.Status // canonical lifecycle state
	OccursOn        Occurrence       // calendar slot, used for sorting
	PartySize       *int             // number of people; nil for orders
	ResourceSummary string           // kind-specific descriptor, computed
	Raw             map[string]any   // original upstream record
}
