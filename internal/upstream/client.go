package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iliyamo/cafe-reservation-hub/internal/kind"
	"github.com/iliyamo/cafe-reservation-hub/internal/lifecycle"
	"github.com/iliyamo/cafe-reservation-hub/internal/model"
)

// Client talks to the remote cafe-platform REST API that owns persistent
// truth for reservations and orders. The bearer credential is passed in
// explicitly at construction; nothing in this package reads ambient
// storage. One Client per acting credential; the underlying http.Client
// may be shared across them.
type Client struct {
	baseURL string       // API root, no trailing slash
	token   string       // bearer credential for every call
	httpc   *http.Client // shared transport
}

// NewClient constructs a Client for the given API root and credential.
// When httpc is nil a client with a conservative timeout is used so that
// an unresponsive upstream cannot pin a request forever.
func NewClient(baseURL, token string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   httpc,
	}
}

// FetchReservations loads reservation records, optionally scoped to a cafe
// and a reservation type. An empty cafeID or kind omits the respective
// query parameter, matching the upstream contract where both are optional.
func (c *Client) FetchReservations(ctx context.Context, cafeID string, k kind.Kind) ([]model.ReservationRecord, error) {
	q := url.Values{}
	if cafeID != "" {
		q.Set("cafe_id", cafeID)
	}
	if k != "" {
		q.Set("reservation_type", string(k))
	}
	var records []model.ReservationRecord
	if err := c.getJSON(ctx, "/reservations", q, &records); err != nil {
		return nil, fmt.Errorf("fetch reservations: %w", err)
	}
	return records, nil
}

// FetchOrders loads order records, optionally scoped to a cafe.
func (c *Client) FetchOrders(ctx context.Context, cafeID string) ([]model.OrderRecord, error) {
	q := url.Values{}
	if cafeID != "" {
		q.Set("cafe_id", cafeID)
	}
	var records []model.OrderRecord
	if err := c.getJSON(ctx, "/orders", q, &records); err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	return records, nil
}

// SubmitTransition asks the store to move one record to a new status. It
// is the only mutating operation of this client. Reservations and orders
// live behind different resources but share the same query contract.
//
// The call is idempotent under retry with the same (kind, id, status)
// triple: when the store refuses because the record is already in the
// requested status, the refusal is folded into success, since the caller
// may be retrying after a timeout whose outcome it never saw.
func (c *Client) SubmitTransition(ctx context.Context, k kind.Kind, id, cafeID string, status lifecycle.Status) (map[string]any, error) {
	resource := "/reservations/"
	if k == kind.Order {
		resource = "/orders/"
	}
	q := url.Values{}
	q.Set("cafe_id", cafeID)
	q.Set("status_update", string(status))

	u := c.baseURL + resource + url.PathEscape(id) + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &SubmitError{Detail: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var updated map[string]any
		if err := json.Unmarshal(body, &updated); err != nil {
			return nil, fmt.Errorf("decode updated record: %w", err)
		}
		return updated, nil
	}

	detail := decodeDetail(body)
	if alreadyAt(detail, status) {
		// Retried submit that had in fact landed; report the state we asked for.
		return map[string]any{"id": id, "status": string(status)}, nil
	}
	return nil, &SubmitError{StatusCode: resp.StatusCode, Detail: detail}
}

// getJSON issues an authorized GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, decodeDetail(body))
	}
	return json.Unmarshal(body, out)
}

// decodeDetail extracts the {detail} field of an upstream error body,
// falling back to the trimmed body text when the shape differs.
func decodeDetail(body []byte) string {
	var eb struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		return eb.Detail
	}
	return strings.TrimSpace(string(body))
}

// alreadyAt reports whether an error detail says the record is already in
// the requested status, e.g. "reservation already confirmed".
func alreadyAt(detail string, status lifecycle.Status) bool {
	d := strings.ToLower(detail)
	return strings.Contains(d, "already") && strings.Contains(d, string(status))
}
