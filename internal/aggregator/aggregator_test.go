package aggregator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cafe-reservation-hub/internal/kind"
	"github.com/iliyamo/cafe-reservation-hub/internal/lifecycle"
	"github.com/iliyamo/cafe-reservation-hub/internal/model"
)

// fakeGateway scripts the three gateway operations and counts calls so
// tests can assert that fail-fast paths never reach the network.
type fakeGateway struct {
	reservations    func(ctx context.Context) ([]model.ReservationRecord, error)
	orders          func(ctx context.Context) ([]model.OrderRecord, error)
	submit          func(ctx context.Context, k kind.Kind, id, cafeID string, status lifecycle.Status) (map[string]any, error)
	fetchCalls      atomic.Int64
	submitCalls     atomic.Int64
	lastSubmittedTo lifecycle.Status
}

func (f *fakeGateway) FetchReservations(ctx context.Context, cafeID string, k kind.Kind) ([]model.ReservationRecord, error) {
	f.fetchCalls.Add(1)
	if f.reservations == nil {
		return nil, nil
	}
	return f.reservations(ctx)
}

func (f *fakeGateway) FetchOrders(ctx context.Context, cafeID string) ([]model.OrderRecord, error) {
	f.fetchCalls.Add(1)
	if f.orders == nil {
		return nil, nil
	}
	return f.orders(ctx)
}

func (f *fakeGateway) SubmitTransition(ctx context.Context, k kind.Kind, id, cafeID string, status lifecycle.Status) (map[string]any, error) {
	f.submitCalls.Add(1)
	f.lastSubmittedTo = status
	if f.submit == nil {
		return map[string]any{"id": id, "status": string(status)}, nil
	}
	return f.submit(ctx, k, id, cafeID, status)
}

func reservationRec(id, cafeID, typ, date, tm, status string) model.ReservationRecord {
	return model.ReservationRecord{
		ID: id, CafeID: cafeID, ReservationType: typ,
		Date: date, Time: tm, Status: status,
		Raw: map[string]any{"id": id, "table_id": "t-" + id},
	}
}

func orderRec(id, cafeID, status, createdAt string) model.OrderRecord {
	return model.OrderRecord{
		ID: id, CafeID: cafeID, Status: status, CreatedAt: createdAt,
		Raw: map[string]any{"id": id, "items": []any{map[string]any{"name": "latte"}}},
	}
}

func TestLoad_MergesBothSourcesPreservingOrder(t *testing.T) {
	gw := &fakeGateway{
		reservations: func(context.Context) ([]model.ReservationRecord, error) {
			return []model.ReservationRecord{
				reservationRec("r1", "c1", "table", "2026-09-01", "18:00", "pending"),
				reservationRec("r2", "c1", "cinema", "2026-09-02", "20:00", "confirmed"),
			}, nil
		},
		orders: func(context.Context) ([]model.OrderRecord, error) {
			return []model.OrderRecord{orderRec("o1", "c1", "completed", "2026-08-30T10:00:00Z")}, nil
		},
	}
	agg := New(gw)
	items, errs := agg.Load(context.Background(), "c1", "")
	require.False(t, errs.Any())
	require.Len(t, items, 3)
	// Reservation-sourced items keep their own relative order, then orders.
	assert.Equal(t, "r1", items[0].ID)
	assert.Equal(t, "r2", items[1].ID)
	assert.Equal(t, "o1", items[2].ID)
	assert.Equal(t, kind.Order, items[2].Kind)
}

func TestLoad_WaitsForSlowSource(t *testing.T) {
	release := make(chan struct{})
	gw := &fakeGateway{
		reservations: func(context.Context) ([]model.ReservationRecord, error) {
			return []model.ReservationRecord{reservationRec("r1", "c1", "table", "2026-09-01", "18:00", "pending")}, nil
		},
		orders: func(context.Context) ([]model.OrderRecord, error) {
			<-release // orders lag behind reservations
			return []model.OrderRecord{orderRec("o1", "c1", "confirmed", "2026-08-30T10:00:00Z")}, nil
		},
	}
	agg := New(gw)

	done := make(chan []model.BookableItem, 1)
	go func() {
		items, _ := agg.Load(context.Background(), "c1", "")
		done <- items
	}()

	select {
	case <-done:
		t.Fatal("load returned before the slow source settled")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case items := <-done:
		require.Len(t, items, 2)
	case <-time.After(time.Second):
		t.Fatal("load did not finish after both sources settled")
	}
}

func TestLoad_OrderOnlyResult(t *testing.T) {
	gw := &fakeGateway{
		reservations: func(context.Context) ([]model.ReservationRecord, error) { return nil, nil },
		orders: func(context.Context) ([]model.OrderRecord, error) {
			return []model.OrderRecord{orderRec("o7", "c1", "confirmed", "2026-08-30T10:00:00Z")}, nil
		},
	}
	items, errs := New(gw).Load(context.Background(), "c1", "")
	require.False(t, errs.Any())
	require.Len(t, items, 1)
	assert.Equal(t, kind.Order, items[0].Kind)
	assert.Equal(t, lifecycle.StatusConfirmed, items[0].Status)
}

func TestLoad_SourceFailuresAreIndependent(t *testing.T) {
	boom := errors.New("orders backend down")
	gw := &fakeGateway{
		reservations: func(context.Context) ([]model.ReservationRecord, error) {
			return []model.ReservationRecord{reservationRec("r1", "c1", "table", "2026-09-01", "18:00", "pending")}, nil
		},
		orders: func(context.Context) ([]model.OrderRecord, error) { return nil, boom },
	}
	items, errs := New(gw).Load(context.Background(), "c1", "")
	// The surviving source's data is still usable; the failure is named.
	require.Len(t, items, 1)
	assert.NoError(t, errs.Reservations)
	assert.ErrorIs(t, errs.Orders, boom)
	assert.True(t, errs.Any())
	assert.False(t, errs.Both())
}

func TestLoad_KindFilterSkipsOrderFetch(t *testing.T) {
	var orderFetches atomic.Int64
	gw := &fakeGateway{
		reservations: func(context.Context) ([]model.ReservationRecord, error) {
			return []model.ReservationRecord{reservationRec("r1", "c1", "cinema", "2026-09-01", "18:00", "pending")}, nil
		},
		orders: func(context.Context) ([]model.OrderRecord, error) {
			orderFetches.Add(1)
			return nil, nil
		},
	}
	items, errs := New(gw).Load(context.Background(), "c1", kind.Cinema)
	require.False(t, errs.Any())
	require.Len(t, items, 1)
	assert.Zero(t, orderFetches.Load(), "order fetch should be skipped for a cinema-only view")
}

func TestLoad_StaleResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int64
	gw := &fakeGateway{
		reservations: func(context.Context) ([]model.ReservationRecord, error) {
			if calls.Add(1) == 1 {
				<-release // first load hangs until after the second finishes
				return []model.ReservationRecord{reservationRec("stale", "c1", "table", "2026-01-01", "10:00", "pending")}, nil
			}
			return []model.ReservationRecord{reservationRec("fresh", "c1", "table", "2026-09-01", "18:00", "pending")}, nil
		},
		orders: func(context.Context) ([]model.OrderRecord, error) { return nil, nil },
	}
	agg := New(gw)

	firstDone := make(chan struct{})
	go func() {
		agg.Load(context.Background(), "c1", "")
		close(firstDone)
	}()
	time.Sleep(20 * time.Millisecond) // let the first load register its generation

	_, errs := agg.Load(context.Background(), "c1", "")
	require.False(t, errs.Any())

	close(release)
	<-firstDone

	items := agg.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "fresh", items[0].ID, "a superseded load must not overwrite the cache")
}

func TestFilter_IdentityReturnsAllInOrder(t *testing.T) {
	items := []model.BookableItem{
		{ID: "a", Kind: kind.Table, Status: lifecycle.StatusPending, ResourceSummary: "table 1"},
		{ID: "b", Kind: kind.Order, Status: lifecycle.StatusConfirmed, ResourceSummary: "2 item(s)"},
	}
	got := Filter(items, Filters{Status: "all", Kind: "all", Query: ""})
	require.Equal(t, items, got)
}

func TestFilter_StatusAcceptsPendingAlias(t *testing.T) {
	items := []model.BookableItem{
		{ID: "a", Status: lifecycle.StatusPending},
		{ID: "b", Status: lifecycle.StatusConfirmed},
	}
	got := Filter(items, Filters{Status: "pending"})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestFilter_QueryIsCasePreserving(t *testing.T) {
	items := []model.BookableItem{
		{ID: "a", ResourceSummary: "cinema session S9 | seats: 4"},
	}
	assert.Len(t, Filter(items, Filters{Query: "S9"}), 1)
	assert.Empty(t, Filter(items, Filters{Query: "s9"}), "matching must not fold case")
	assert.Empty(t, Filter(items, Filters{Query: "2026"}), "dates are not searched")
}

func TestFilter_ByKind(t *testing.T) {
	items := []model.BookableItem{
		{ID: "a", Kind: kind.Table},
		{ID: "b", Kind: kind.Order},
	}
	got := Filter(items, Filters{Kind: "order"})
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestApplyTransition_Idempotent(t *testing.T) {
	items := []model.BookableItem{
		{ID: "7", Kind: kind.Table, Status: lifecycle.StatusPending},
		{ID: "8", Kind: kind.Table, Status: lifecycle.StatusConfirmed},
	}
	once := ApplyTransition(items, "7", kind.Table, lifecycle.StatusConfirmed)
	twice := ApplyTransition(once, "7", kind.Table, lifecycle.StatusConfirmed)
	assert.Equal(t, once, twice)
	// The input collection is never mutated.
	assert.Equal(t, lifecycle.StatusPending, items[0].Status)
	// No other item is touched.
	assert.Equal(t, lifecycle.StatusConfirmed, once[1].Status)
}

func TestApplyTransition_UnknownPairUnchanged(t *testing.T) {
	items := []model.BookableItem{{ID: "7", Kind: kind.Table, Status: lifecycle.StatusPending}}
	// Same id, different kind: the aggregation key is the pair, not the id.
	got := ApplyTransition(items, "7", kind.Cinema, lifecycle.StatusConfirmed)
	assert.Equal(t, items, got)
}

func TestSummarize_Counts(t *testing.T) {
	items := []model.BookableItem{
		{Kind: kind.Table, Status: lifecycle.StatusPending},
		{Kind: kind.Table, Status: lifecycle.StatusConfirmed},
		{Kind: kind.Order, Status: lifecycle.StatusConfirmed},
	}
	s := Summarize(items)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByKind[kind.Table])
	assert.Equal(t, 1, s.ByKind[kind.Order])
	assert.Equal(t, 2, s.ByStatus[lifecycle.StatusConfirmed])
	assert.Equal(t, 1, s.ByStatus[lifecycle.StatusPending])
}

func TestSortByOccurrence(t *testing.T) {
	items := []model.BookableItem{
		{ID: "late", OccursOn: model.Occurrence{Date: "2026-09-02", Time: "09:00"}},
		{ID: "early", OccursOn: model.Occurrence{Date: "2026-09-01", Time: "18:00"}},
		{ID: "mid", OccursOn: model.Occurrence{Date: "2026-09-02", Time: "08:00"}},
	}
	got := SortByOccurrence(items)
	assert.Equal(t, []string{got[0].ID, got[1].ID, got[2].ID}, []string{"early", "mid", "late"})
	// Input order untouched.
	assert.Equal(t, "late", items[0].ID)
}
