package model

import (
	"encoding/json"

	"github.com/iliyamo/cafe-reservation-hub/internal/kind"
	"github.com/iliyamo/cafe-reservation-hub/internal/lifecycle"
)

// ReservationRecord mirrors one row of GET /reservations as served by the
// upstream store. Only the fields the aggregation layer reads are typed;
// everything else (notes, attendee names, kind-specific extras) stays in
// Raw so kind-specific actions keep access to the full record.
//
// Fields:
//  ID              – record identifier, unique within its reservation type.
//  CafeID          – owning cafe tenant.
//  ReservationType – discriminator: table, cinema, event or coworking.
//  Date            – reservation date string.
//  Time            – reservation time-of-day string.
//  Status          – raw status string; may use the "pending" alias.
//  NumberOfPeople  – party size; optional on the wire.
type ReservationRecord struct {
	ID              string         `json:"id"`
	CafeID          string         `json:"cafe_id"`
	ReservationType string         `json:"reservation_type"`
	Date            string         `json:"date"`
	Time            string         `json:"time"`
	Status          string         `json:"status"`
	NumberOfPeople  *int           `json:"number_of_people,omitempty"`
	Raw             map[string]any `json:"-"`
}

// UnmarshalJSON decodes the typed fields and additionally retains the full
// object as a generic map in Raw. Upstream adds kind-specific fields
// (table_id, session_id, seat_numbers, event_id) that the registry reads
// from Raw when summarizing.
func (r *ReservationRecord) UnmarshalJSON(data []byte) error {
	type alias ReservationRecord
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = ReservationRecord(a)
	r.Raw = raw
	return nil
}

// Item normalizes the record into the unified BookableItem form. Records
// with an unknown reservation type or status are reported back to the
// caller instead of entering the listing half-formed.
func (r ReservationRecord) Item() (BookableItem, error) {
	k, err := kind.Parse(r.ReservationType)
	if err != nil {
		return BookableItem{}, err
	}
	st, err := lifecycle.Parse(r.Status)
	if err != nil {
		return BookableItem{}, err
	}
	return BookableItem{
		ID:              r.ID,
		Kind:            k,
		CafeID:          r.CafeID,
		Status:          st,
		OccursOn:        Occurrence{Date: r.Date, Time: r.Time},
		PartySize:       r.NumberOfPeople,
		ResourceSummary: kind.Summarize(k, r.Raw),
		Raw:             r.Raw,
	}, nil
}
