package aggregator

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/iliyamo/cafe-reservation-hub/internal/kind"
	"github.com/iliyamo/cafe-reservation-hub/internal/lifecycle"
	"github.com/iliyamo/cafe-reservation-hub/internal/model"
)

// Gateway is the thin contract the aggregator needs from the remote
// authoritative store: two independent reads and one mutating call. It is
// satisfied by *upstream.Client; tests substitute fakes.
type Gateway interface {
	FetchReservations(ctx context.Context, cafeID string, k kind.Kind) ([]model.ReservationRecord, error)
	FetchOrders(ctx context.Context, cafeID string) ([]model.OrderRecord, error)
	SubmitTransition(ctx context.Context, k kind.Kind, id, cafeID string, status lifecycle.Status) (map[string]any, error)
}

// Actor identifies who is requesting a transition: the role decides which
// targets are legal and CafeID is the fallback tenant when a record
// carries none of its own.
type Actor struct {
	Role   lifecycle.Role // staff or customer classification
	CafeID string         // assigned cafe, may be empty
}

// SourceErrors reports the outcome of the two load sources independently.
// One source failing never hides the other's data: the caller can tell
// "no orders" apart from "orders fetch failed" and decide whether to show
// partial results with a warning or block entirely.
type SourceErrors struct {
	Reservations error // reservation fetch outcome, nil on success
	Orders       error // order fetch outcome, nil on success
}

// Any reports whether at least one source failed.
func (e SourceErrors) Any() bool { return e.Reservations != nil || e.Orders != nil }

// Both reports whether both sources failed and no data is usable.
func (e SourceErrors) Both() bool { return e.Reservations != nil && e.Orders != nil }

// Aggregator merges reservation and order records into one normalized
// collection and owns the read cache of a single operator view. The remote
// store owns persistent truth; the cache is patched optimistically but is
// always reconcilable to a server-issued record. Each view holds its own
// Aggregator; consistency across views comes from each re-issuing Load,
// never from shared memory.
type Aggregator struct {
	gw Gateway

	mu    sync.Mutex
	gen   uint64 // bumped by every Load; stale results are discarded
	items []model.BookableItem
}

// New constructs an Aggregator on top of the given gateway.
func New(gw Gateway) *Aggregator {
	if gw == nil {
		panic("nil gateway passed to aggregator.New")
	}
	return &Aggregator{gw: gw}
}

// Load fetches both sources concurrently, waits for both to settle, and
// installs the merged, normalized collection as the view's cache. The
// merge preserves each source's own order and never exposes a partial
// result while one source is still pending. A Load that finishes after a
// newer Load has been issued leaves the cache alone: its result is
// returned to its caller but the view has moved on.
func (a *Aggregator) Load(ctx context.Context, cafeID string, kindFilter kind.Kind) ([]model.BookableItem, SourceErrors) {
	a.mu.Lock()
	a.gen++
	myGen := a.gen
	a.mu.Unlock()

	var (
		wg           sync.WaitGroup
		reservations []model.ReservationRecord
		orders       []model.OrderRecord
		errs         SourceErrors
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		reservations, errs.Reservations = a.gw.FetchReservations(ctx, cafeID, kindFilter)
	}()
	go func() {
		defer wg.Done()
		// A kind filter other than "order" excludes the order source up
		// front; fetching it just to drop every row wastes a round-trip.
		if kindFilter != "" && kindFilter != kind.Order {
			return
		}
		orders, errs.Orders = a.gw.FetchOrders(ctx, cafeID)
	}()
	wg.Wait()

	items := make([]model.BookableItem, 0, len(reservations)+len(orders))
	for _, rec := range reservations {
		item, err := rec.Item()
		if err != nil {
			log.Printf("aggregator: skipping reservation %s: %v", rec.ID, err)
			continue
		}
		items = append(items, item)
	}
	for _, rec := range orders {
		item, err := rec.Item()
		if err != nil {
			log.Printf("aggregator: skipping order %s: %v", rec.ID, err)
			continue
		}
		items = append(items, item)
	}
	if kindFilter == kind.Order {
		// The reservation endpoint has no "order" type; drop its rows.
		items = Filter(items, Filters{Kind: string(kind.Order)})
	}

	a.mu.Lock()
	if a.gen == myGen {
		a.items = items
	}
	a.mu.Unlock()
	return items, errs
}

// Items returns a snapshot of the view's current collection.
func (a *Aggregator) Items() []model.BookableItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.BookableItem, len(a.items))
	copy(out, a.items)
	return out
}

// Filters narrows a collection. Status and Kind are exact-match; empty or
// "all" matches everything. Query is a case-preserving substring match
// against the resource summary only, never against ids or dates.
type Filters struct {
	Status string // canonical status, alias accepted, or "all"
	Kind   string // resource kind or "all"
	Query  string // substring of ResourceSummary; empty matches all
}

// Filter applies the filters to a collection without mutating it. Order
// is preserved. A status filter that does not parse matches nothing
// rather than silently matching everything.
func Filter(items []model.BookableItem, f Filters) []model.BookableItem {
	var (
		wantStatus    lifecycle.Status
		statusInvalid bool
	)
	if f.Status != "" && f.Status != "all" {
		st, err := lifecycle.Parse(f.Status)
		if err != nil {
			statusInvalid = true
		}
		wantStatus = st
	}
	out := make([]model.BookableItem, 0, len(items))
	for _, it := range items {
		if statusInvalid {
			break
		}
		if wantStatus != "" && it.Status != wantStatus {
			continue
		}
		if f.Kind != "" && f.Kind != "all" && string(it.Kind) != f.Kind {
			continue
		}
		// Case-preserving substring match: no folding on either side.
		if f.Query != "" && !strings.Contains(it.ResourceSummary, f.Query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// ApplyTransition returns a new collection in which the item matching
// (id, k) carries the new status. No other item is touched and the input
// slice is never mutated, so rollback is a matter of keeping the previous
// reference. When no item matches, the input content is returned
// unchanged; issuing against a known item is the caller's job.
func ApplyTransition(items []model.BookableItem, id string, k kind.Kind, status lifecycle.Status) []model.BookableItem {
	out := make([]model.BookableItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id && out[i].Kind == k {
			out[i].Status = status
			break
		}
	}
	return out
}

// Summary holds the count widgets every operator overview renders.
type Summary struct {
	Total    int                      `json:"total"`
	ByStatus map[lifecycle.Status]int `json:"by_status"`
	ByKind   map[kind.Kind]int        `json:"by_kind"`
}

// Summarize computes per-status and per-kind counts over a collection.
func Summarize(items []model.BookableItem) Summary {
	s := Summary{
		Total:    len(items),
		ByStatus: make(map[lifecycle.Status]int),
		ByKind:   make(map[kind.Kind]int),
	}
	for _, it := range items {
		s.ByStatus[it.Status]++
		s.ByKind[it.Kind]++
	}
	return s
}

// SortByOccurrence orders a collection chronologically by its calendar
// slot. Load itself only guarantees per-source order, so callers that
// want chronology sort explicitly. The sort is stable: items sharing a
// slot keep their source order.
func SortByOccurrence(items []model.BookableItem) []model.BookableItem {
	out := make([]model.BookableItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccursOn.Key() < out[j].OccursOn.Key()
	})
	return out
}
