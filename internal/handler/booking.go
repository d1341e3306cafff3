package handler

// This file defines the operator-facing booking endpoints: the combined
// reservations-and-orders listing, its summary counts, and the status
// transition operation. Handlers are stateless; every request builds an
// upstream client bound to the caller's own bearer credential and
// re-issues a fresh load, which is how consistency across operator
// screens is achieved (no shared cache between views).

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cafe-reservation-hub/internal/aggregator"
	"github.com/iliyamo/cafe-reservation-hub/internal/kind"
	"github.com/iliyamo/cafe-reservation-hub/internal/lifecycle"
	"github.com/iliyamo/cafe-reservation-hub/internal/middleware"
	"github.com/iliyamo/cafe-reservation-hub/internal/model"
	"github.com/iliyamo/cafe-reservation-hub/internal/queue"
	queue_publisher "github.com/iliyamo/cafe-reservation-hub/internal/service"
	"github.com/iliyamo/cafe-reservation-hub/internal/upstream"
)

// BookingHandler serves the aggregated booking views. It holds the
// upstream API root and a shared HTTP client; per-request clients derive
// from these with the caller's credential.
type BookingHandler struct {
	baseURL       string
	defaultCafeID string
	httpc         *http.Client
}

// NewBookingHandler constructs a BookingHandler. timeoutSec bounds every
// upstream call; defaultCafeID may be empty and is the last-resort tenant
// fallback for single-cafe deployments.
func NewBookingHandler(baseURL string, timeoutSec int, defaultCafeID string) *BookingHandler {
	if baseURL == "" {
		panic("empty upstream base URL passed to NewBookingHandler")
	}
	if timeoutSec <= 0 {
		timeoutSec = 15
	}
	return &BookingHandler{
		baseURL:       baseURL,
		defaultCafeID: defaultCafeID,
		httpc:         &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

// bookingItem is the JSON shape of one listing row. The raw upstream
// record is echoed back so frontends keep access to kind-specific fields
// without another round-trip.
type bookingItem struct {
	ID              string         `json:"id"`
	Kind            kind.Kind      `json:"kind"`
	CafeID          string         `json:"cafe_id,omitempty"`
	Status          string         `json:"status"`
	Date            string         `json:"date"`
	Time            string         `json:"time"`
	NumberOfPeople  *int           `json:"number_of_people,omitempty"`
	ResourceSummary string         `json:"resource_summary"`
	Raw             map[string]any `json:"raw,omitempty"`
}

func toBookingItem(it model.BookableItem) bookingItem {
	return bookingItem{
		ID:              it.ID,
		Kind:            it.Kind,
		CafeID:          it.CafeID,
		Status:          string(it.Status),
		Date:            it.OccursOn.Date,
		Time:            it.OccursOn.Time,
		NumberOfPeople:  it.PartySize,
		ResourceSummary: it.ResourceSummary,
		Raw:             it.Raw,
	}
}

// gateway builds the per-request upstream client carrying the caller's
// own bearer token, which JWTAuth stored in the context. No ambient
// credential lookup happens anywhere below this point.
func (h *BookingHandler) gateway(c echo.Context) *upstream.Client {
	return upstream.NewClient(h.baseURL, middleware.ClaimString(c, "bearer_token"), h.httpc)
}

// cafeFor resolves the tenant for a request: explicit query parameter
// first, then the operator's cafe claim, then the configured default.
// The result may still be empty; listing tolerates that (the upstream
// scopes by credential), transitions do not.
func (h *BookingHandler) cafeFor(c echo.Context) string {
	if v := c.QueryParam("cafe_id"); v != "" {
		return v
	}
	if v := middleware.ClaimString(c, "cafe_id"); v != "" {
		return v
	}
	return h.defaultCafeID
}

// List handles GET /v1/bookings. Query parameters: cafe_id, kind, status
// and q (free-text match against the resource summary). The two sources
// are fetched concurrently; when exactly one fails, the other's rows are
// returned together with a warning naming the failed source, so the
// frontend can show partial results instead of nothing.
func (h *BookingHandler) List(c echo.Context) error {
	var kindFilter kind.Kind
	if kq := c.QueryParam("kind"); kq != "" && kq != "all" {
		k, err := kind.Parse(kq)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid kind"})
		}
		kindFilter = k
	}

	agg := aggregator.New(h.gateway(c))
	items, srcErrs := agg.Load(c.Request().Context(), h.cafeFor(c), kindFilter)
	if errors.Is(srcErrs.Reservations, upstream.ErrUnauthorized) || errors.Is(srcErrs.Orders, upstream.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if srcErrs.Both() {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load reservations and orders"})
	}

	items = aggregator.Filter(items, aggregator.Filters{
		Status: c.QueryParam("status"),
		Query:  c.QueryParam("q"),
	})
	items = aggregator.SortByOccurrence(items)

	out := make([]bookingItem, 0, len(items))
	for _, it := range items {
		out = append(out, toBookingItem(it))
	}
	var warnings []string
	if srcErrs.Reservations != nil {
		warnings = append(warnings, "reservations fetch failed")
	}
	if srcErrs.Orders != nil {
		warnings = append(warnings, "orders fetch failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":    out,
		"count":    len(out),
		"warnings": warnings,
	})
}

// Summary handles GET /v1/bookings/summary. It returns per-status and
// per-kind counts over the full combined collection for the overview
// widgets. A partial load still produces counts, flagged with warnings
// the same way List does.
func (h *BookingHandler) Summary(c echo.Context) error {
	agg := aggregator.New(h.gateway(c))
	items, srcErrs := agg.Load(c.Request().Context(), h.cafeFor(c), "")
	if errors.Is(srcErrs.Reservations, upstream.ErrUnauthorized) || errors.Is(srcErrs.Orders, upstream.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if srcErrs.Both() {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load reservations and orders"})
	}
	var warnings []string
	if srcErrs.Reservations != nil {
		warnings = append(warnings, "reservations fetch failed")
	}
	if srcErrs.Orders != nil {
		warnings = append(warnings, "orders fetch failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"summary":  aggregator.Summarize(items),
		"warnings": warnings,
	})
}

// UpdateStatus handles PUT /v1/bookings/:kind/:id/status. The target
// state arrives as ?status_update=, mirroring the upstream contract. The
// transition is validated locally before any upstream call: an illegal
// move or an unresolvable cafe never costs a round-trip. On success a
// status-changed event is published best-effort for the audit consumer.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	k, err := kind.Parse(c.Param("kind"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid kind"})
	}
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing id"})
	}
	target, err := lifecycle.Parse(c.QueryParam("status_update"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status_update"})
	}

	actor := aggregator.Actor{
		Role:   lifecycle.RoleFromClaim(middleware.ClaimString(c, "role")),
		CafeID: h.cafeFor(c),
	}

	ctx := c.Request().Context()
	agg := aggregator.New(h.gateway(c))
	// Load the view scoped to the record's kind so the transition sees
	// current server truth, not whatever an earlier screen cached.
	_, srcErrs := agg.Load(ctx, actor.CafeID, k)
	relevant := srcErrs.Reservations
	if k == kind.Order {
		relevant = srcErrs.Orders
	}
	if relevant != nil {
		if errors.Is(relevant, upstream.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load current state"})
	}

	var fromStatus lifecycle.Status
	for _, it := range agg.Items() {
		if it.ID == id && it.Kind == k {
			fromStatus = it.Status
			break
		}
	}

	updated, err := agg.Transition(ctx, actor, id, k, target)
	switch {
	case err == nil:
		// fall through to success below
	case errors.Is(err, aggregator.ErrUnknownItem):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, aggregator.ErrForbiddenTransition):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, aggregator.ErrMissingCafeContext):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no resolvable cafe for this booking"})
	case errors.Is(err, upstream.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	default:
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}

	// Audit event; failures are logged inside the publisher and ignored.
	// Detached from the request context: the response does not wait for
	// the broker, and a client disconnect must not drop the audit line.
	go func(ev queue.StatusChangedEvent) {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishStatusChanged(pubCtx, ev)
	}(queue.StatusChangedEvent{
		Kind:       string(k),
		ItemID:     id,
		CafeID:     updated.CafeID,
		FromStatus: string(fromStatus),
		ToStatus:   string(updated.Status),
		ActorRole:  string(actor.Role),
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"item": toBookingItem(updated)})
}
