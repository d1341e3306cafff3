package model

import (
	"encoding/json"
	"time"

	"github.com/iliyamo/cafe-reservation-hub/internal/kind"
	"github.com/iliyamo/cafe-reservation-hub/internal/lifecycle"
)

// OrderItem is one line of a product order.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderRecord mirrors one row of GET /orders. Orders have no calendar slot
// of their own; the creation timestamp stands in for it so orders sort
// alongside reservations in the combined listing.
type OrderRecord struct {
	ID        string         `json:"id"`
	CafeID    string         `json:"cafe_id"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"created_at"`
	Items     []OrderItem    `json:"items"`
	Raw       map[string]any `json:"-"`
}

// UnmarshalJSON retains the full wire object in Raw next to the typed
// fields, mirroring ReservationRecord.
func (r *OrderRecord) UnmarshalJSON(data []byte) error {
	type alias OrderRecord
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = OrderRecord(a)
	r.Raw = raw
	return nil
}

// Item normalizes the order into the unified BookableItem form. Orders
// never carry a party size, so PartySize stays nil regardless of upstream
// content.
func (r OrderRecord) Item() (BookableItem, error) {
	st, err := lifecycle.Parse(r.Status)
	if err != nil {
		return BookableItem{}, err
	}
	return BookableItem{
		ID:              r.ID,
		Kind:            kind.Order,
		CafeID:          r.CafeID,
		Status:          st,
		OccursOn:        splitTimestamp(r.CreatedAt),
		ResourceSummary: kind.Summarize(kind.Order, r.Raw),
		Raw:             r.Raw,
	}, nil
}

// splitTimestamp converts an RFC 3339 creation timestamp into the
// date/time-of-day pair used for sorting. Timestamps the upstream emits
// without a zone are accepted too; anything unparseable keeps the raw
// string as the date so the record still sorts deterministically.
func splitTimestamp(ts string) Occurrence {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return Occurrence{Date: t.Format("2006-01-02"), Time: t.Format("15:04")}
		}
	}
	return Occurrence{Date: ts}
}
