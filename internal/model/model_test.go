package model

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cafe-reservation-hub/internal/kind"
	"github.com/iliyamo/cafe-reservation-hub/internal/lifecycle"
)

func TestOccurrence_KeySortsChronologically(t *testing.T) {
	keys := []string{
		Occurrence{Date: "2026-09-02", Time: "08:00"}.Key(),
		Occurrence{Date: "2026-09-01", Time: "18:30"}.Key(),
		Occurrence{Date: "2026-09-02", Time: "07:59"}.Key(),
	}
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	assert.Equal(t, []string{keys[1], keys[2], keys[0]}, sorted)
}

func TestOccurrence_Classify(t *testing.T) {
	today := "2026-08-29"
	assert.Equal(t, Past, Occurrence{Date: "2026-08-28"}.Classify(today))
	assert.Equal(t, Today, Occurrence{Date: "2026-08-29"}.Classify(today))
	assert.Equal(t, Future, Occurrence{Date: "2026-08-30"}.Classify(today))
	// Undated records stay visible in today's view.
	assert.Equal(t, Today, Occurrence{}.Classify(today))
}

func TestReservationRecord_UnmarshalRetainsRaw(t *testing.T) {
	data := []byte(`{
		"id":"r1","cafe_id":"c1","reservation_type":"cinema",
		"date":"2026-09-01","time":"20:00","status":"pending",
		"session_id":"s9","seat_numbers":["a1","a2"],"note":"birthday"
	}`)
	var rec ReservationRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "r1", rec.ID)
	assert.Equal(t, "cinema", rec.ReservationType)
	// Kind-specific extras survive alongside the typed fields.
	assert.Equal(t, "s9", rec.Raw["session_id"])
	assert.Equal(t, "birthday", rec.Raw["note"])
}

func TestReservationRecord_Item(t *testing.T) {
	people := 4
	rec := ReservationRecord{
		ID: "r1", CafeID: "c1", ReservationType: "table",
		Date: "2026-09-01", Time: "18:00", Status: "pending",
		NumberOfPeople: &people,
		Raw:            map[string]any{"table_id": "12"},
	}
	item, err := rec.Item()
	require.NoError(t, err)
	assert.Equal(t, kind.Table, item.Kind)
	assert.Equal(t, lifecycle.StatusPending, item.Status)
	require.NotNil(t, item.PartySize)
	assert.Equal(t, 4, *item.PartySize)
	assert.Equal(t, "table 12", item.ResourceSummary)
	assert.Equal(t, "2026-09-01 18:00", item.OccursOn.Key())
}

func TestReservationRecord_ItemRejectsUnknowns(t *testing.T) {
	_, err := ReservationRecord{ReservationType: "karaoke", Status: "pending"}.Item()
	assert.Error(t, err)
	_, err = ReservationRecord{ReservationType: "table", Status: "limbo"}.Item()
	assert.Error(t, err)
}

func TestOrderRecord_Item(t *testing.T) {
	data := []byte(`{
		"id":"o1","cafe_id":"c1","status":"confirmed",
		"created_at":"2026-08-30T10:15:00Z",
		"items":[{"name":"latte","quantity":2,"price":4.5},{"name":"croissant","quantity":1,"price":3}]
	}`)
	var rec OrderRecord
	require.NoError(t, json.Unmarshal(data, &rec))

	item, err := rec.Item()
	require.NoError(t, err)
	assert.Equal(t, kind.Order, item.Kind)
	assert.Nil(t, item.PartySize)
	assert.Equal(t, "2026-08-30", item.OccursOn.Date)
	assert.Equal(t, "10:15", item.OccursOn.Time)
	assert.Equal(t, "2 item(s): latte, croissant", item.ResourceSummary)
}

func TestSplitTimestamp(t *testing.T) {
	cases := []struct {
		in       string
		wantDate string
		wantTime string
	}{
		{"2026-08-30T10:15:00Z", "2026-08-30", "10:15"},
		{"2026-08-30T10:15:00.123456Z", "2026-08-30", "10:15"},
		{"2026-08-30T10:15:00", "2026-08-30", "10:15"},
		{"2026-08-30 10:15:00", "2026-08-30", "10:15"},
	}
	for _, tc := range cases {
		got := splitTimestamp(tc.in)
		assert.Equal(t, tc.wantDate, got.Date, tc.in)
		assert.Equal(t, tc.wantTime, got.Time, tc.in)
	}
	// Unparseable stamps keep the raw value so sorting stays deterministic.
	assert.Equal(t, Occurrence{Date: "weird"}, splitTimestamp("weird"))
}
