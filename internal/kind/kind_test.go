package kind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, k := range All() {
		got, err := Parse(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := Parse("  Cinema ")
	require.NoError(t, err)
	assert.Equal(t, Cinema, got)

	_, err = Parse("karaoke")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	for _, k := range []Kind{Table, Cinema, Event, Coworking} {
		d := Describe(k)
		assert.True(t, d.HasPartySize, "%s carries a party size", k)
		assert.NotEmpty(t, d.Label)
	}
	assert.False(t, Describe(Order).HasPartySize)
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name string
		k    Kind
		raw  map[string]any
		want string
	}{
		{
			name: "table",
			k:    Table,
			raw:  map[string]any{"table_id": "t-12"},
			want: "table t-12",
		},
		{
			name: "cinema with seats",
			k:    Cinema,
			raw:  map[string]any{"session_id": "s9", "seat_numbers": []any{float64(4), float64(5)}},
			want: "cinema session s9 | seats: 4, 5",
		},
		{
			name: "cinema without seats",
			k:    Cinema,
			raw:  map[string]any{"session_id": "s9"},
			want: "cinema session s9 | seats: -",
		},
		{
			name: "event",
			k:    Event,
			raw:  map[string]any{"event_id": "e1", "session_id": "s2"},
			want: "event e1 session s2",
		},
		{
			name: "coworking",
			k:    Coworking,
			raw:  map[string]any{"table_id": "d7"},
			want: "shared desk d7",
		},
		{
			name: "order with named items",
			k:    Order,
			raw: map[string]any{"items": []any{
				map[string]any{"name": "espresso"},
				map[string]any{"name": "cheesecake"},
			}},
			want: "2 item(s): espresso, cheesecake",
		},
		{
			name: "order without items",
			k:    Order,
			raw:  map[string]any{},
			want: "0 item(s)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Summarize(tc.k, tc.raw))
		})
	}
}

// Upstream records are not schema-validated, so Summarize must degrade to
// placeholders instead of failing, whatever shape the raw map has.
func TestSummarize_NeverFailsOnMissingFields(t *testing.T) {
	hostile := []map[string]any{
		nil,
		{},
		{"table_id": 3.5},
		{"seat_numbers": "not-a-list"},
		{"items": "not-a-list"},
		{"items": []any{"not-a-map"}},
		{"session_id": map[string]any{"nested": true}},
	}
	for _, k := range All() {
		for _, raw := range hostile {
			assert.NotPanics(t, func() { _ = Summarize(k, raw) }, "kind=%s raw=%v", k, raw)
		}
	}
}
