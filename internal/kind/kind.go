// Package kind describes the five bookable resource categories handled by
// the platform: table, cinema, event and coworking reservations plus product
// orders. Every record fetched from the upstream store is tagged with
// exactly one kind, and the kind decides which resource-specific fields are
// meaningful when rendering a listing row.
package kind

import (
	"fmt"
	"strings"
)

// Kind identifies the resource category of a bookable record. The string
// values match the reservation_type discriminator used on the wire; Order
// is synthetic because product orders arrive from a separate endpoint and
// carry no reservation_type of their own.
type Kind string

const (
	Table     Kind = "table"     // table reservation
	Cinema    Kind = "cinema"    // cinema session seat booking
	Event     Kind = "event"     // event session booking
	Coworking Kind = "coworking" // shared-space desk booking
	Order     Kind = "order"     // product order
)

// Descriptor carries the static, display-oriented attributes of a kind.
// HasPartySize reports whether records of this kind carry a
// number_of_people attribute; product orders do not.
type Descriptor struct {
	Label        string // human-readable kind label
	HasPartySize bool   // whether number_of_people is meaningful
}

// descriptors is the static registry of all supported kinds.
var descriptors = map[Kind]Descriptor{
	Table:     {Label: "Table", HasPartySize: true},
	Cinema:    {Label: "Cinema", HasPartySize: true},
	Event:     {Label: "Event", HasPartySize: true},
	Coworking: {Label: "Coworking", HasPartySize: true},
	Order:     {Label: "Order", HasPartySize: false},
}

// All returns every registered kind in a stable order. Callers use it when
// building filter option lists or iterating the registry in tests.
func All() []Kind {
	return []Kind{Table, Cinema, Event, Coworking, Order}
}

// Parse validates a raw kind string. It trims whitespace and lowercases
// the input before matching so that wire values like "Table" are accepted.
// Unknown values return an error rather than a zero Kind so that callers
// never carry an unregistered kind into the aggregation layer.
func Parse(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := descriptors[k]; !ok {
		return "", fmt.Errorf("unknown resource kind: %q", s)
	}
	return k, nil
}

// Describe returns the static descriptor for a kind. Unregistered kinds
// yield a zero Descriptor; callers that went through Parse never see one.
func Describe(k Kind) Descriptor {
	return descriptors[k]
}

// Summarize produces a short human-readable descriptor of the
// kind-specific fields of a raw upstream record, e.g. seat numbers for a
// cinema booking or the table identifier for a table reservation. Upstream
// records are not schema-validated before reaching this layer, so missing
// or oddly typed fields degrade to an empty placeholder; Summarize never
// fails.
func Summarize(k Kind, raw map[string]any) string {
	switch k {
	case Table:
		return "table " + str(raw, "table_id")
	case Cinema:
		seats := strs(raw, "seat_numbers")
		label := "cinema session " + str(raw, "session_id")
		if len(seats) == 0 {
			return label + " | seats: -"
		}
		return label + " | seats: " + strings.Join(seats, ", ")
	case Event:
		return "event " + str(raw, "event_id") + " session " + str(raw, "session_id")
	case Coworking:
		return "shared desk " + str(raw, "table_id")
	case Order:
		items := itemNames(raw)
		label := fmt.Sprintf("%d item(s)", orderItemCount(raw))
		if len(items) == 0 {
			return label
		}
		return label + ": " + strings.Join(items, ", ")
	}
	return ""
}

// str reads a string-ish field from a raw record, formatting numbers so
// that numeric identifiers still render. Missing values become "".
func str(raw map[string]any, key string) string {
	if raw == nil {
		return ""
	}
	switch v := raw[key].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case int, int64, uint64:
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// strs reads a list field, converting each element with the same leniency
// as str. Non-list values yield nil.
func strs(raw map[string]any, key string) []string {
	if raw == nil {
		return nil
	}
	list, ok := raw[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, el := range list {
		switch v := el.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, fmt.Sprintf("%d", int64(v)))
		case int, int64:
			out = append(out, fmt.Sprintf("%v", v))
		}
	}
	return out
}

// orderItemCount counts the entries of an order's items array. A missing
// or malformed array counts as zero.
func orderItemCount(raw map[string]any) int {
	if raw == nil {
		return 0
	}
	if list, ok := raw["items"].([]any); ok {
		return len(list)
	}
	return 0
}

// itemNames collects the name field of each order item when present.
func itemNames(raw map[string]any) []string {
	if raw == nil {
		return nil
	}
	list, ok := raw["items"].([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := m["name"].(string); ok && n != "" {
			names = append(names, n)
		}
	}
	return names
}
