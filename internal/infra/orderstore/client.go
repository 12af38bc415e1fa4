// Package orderstore is the HTTP client for the remote order store. The
// store is authoritative: reads return full snapshots, writes are
// confirmed only by a subsequent full resync.
package orderstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"flycenter-counter/internal/stories/orders"
)

const tracerName = "flycenter-counter/orderstore"

// Query is the order-list filter. An empty status set means "all".
type Query struct {
	Term            string
	Statuses        []orders.Status
	ShowAllPickedUp bool
}

// PreviewQuery asks the store's pricing collaborator for a quote.
type PreviewQuery struct {
	SuitcaseQty int
	BackpackQty int
	PickupAt    time.Time
}

// Preview is the read-only price preview response.
type Preview struct {
	SetQty              int `json:"set_qty"`
	PricePerDay         int `json:"price_per_day"`
	ExpectedStorageDays int `json:"expected_storage_days"`
	DiscountPercent     int `json:"discount_percent"`
	BasePrepaidAmount   int `json:"base_prepaid_amount"`
	AutoPrepaidAmount   int `json:"auto_prepaid_amount"`
	PrepaidAmount       int `json:"prepaid_amount"`
}

// Client talks to the staff order API. Mutations carry an idempotency
// key; all calls go through a client-side rate limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	tracer     trace.Tracer
}

func NewClient(baseURL string, timeout time.Duration, rps float64, burst int, logger *slog.Logger) *Client {
	if burst < 1 {
		burst = 1
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// ListOrders fetches the current snapshot for the given filter. The
// response is the sole source of truth for the cycle that requested it.
func (c *Client) ListOrders(ctx context.Context, q Query) ([]orders.Order, error) {
	params := url.Values{}
	if term := strings.TrimSpace(q.Term); term != "" {
		params.Set("q", term)
	}
	for _, st := range q.Statuses {
		params.Add("status_filter", string(st))
	}
	if q.ShowAllPickedUp {
		params.Set("show_all_picked_up", "true")
	}

	var payload struct {
		Orders []orders.Order `json:"orders"`
	}
	if err := c.get(ctx, "/staff/api/orders", params, &payload); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return payload.Orders, nil
}

// GetOrder fetches one order, or nil if the store no longer has it.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	var payload struct {
		Order orders.Order `json:"order"`
	}
	err := c.get(ctx, "/staff/api/orders/"+url.PathEscape(orderID), nil, &payload)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get order")
	}
	return &payload.Order, nil
}

// InlineUpdate submits the inline-save mutation.
func (c *Client) InlineUpdate(ctx context.Context, orderID string, upd orders.InlineUpdate) error {
	path := "/staff/api/orders/" + url.PathEscape(orderID) + "/inline-update"
	if err := c.post(ctx, path, upd); err != nil {
		return errors.Wrap(err, "inline update")
	}
	return nil
}

// Pickup marks the order picked up. No body.
func (c *Client) Pickup(ctx context.Context, orderID string) error {
	path := "/staff/api/orders/" + url.PathEscape(orderID) + "/pickup"
	if err := c.post(ctx, path, nil); err != nil {
		return errors.Wrap(err, "pickup")
	}
	return nil
}

// UndoPickup reverts the picked-up flag only.
func (c *Client) UndoPickup(ctx context.Context, orderID string) error {
	path := "/staff/api/orders/" + url.PathEscape(orderID) + "/undo-pickup"
	if err := c.post(ctx, path, nil); err != nil {
		return errors.Wrap(err, "undo pickup")
	}
	return nil
}

// PricePreview asks the store to quote a bag combination.
func (c *Client) PricePreview(ctx context.Context, q PreviewQuery) (*Preview, error) {
	params := url.Values{}
	params.Set("suitcase_qty", fmt.Sprintf("%d", q.SuitcaseQty))
	params.Set("backpack_qty", fmt.Sprintf("%d", q.BackpackQty))
	params.Set("pickup_at", q.PickupAt.Format(time.RFC3339))

	var preview Preview
	if err := c.get(ctx, "/api/price-preview", params, &preview); err != nil {
		return nil, errors.Wrap(err, "price preview")
	}
	return &preview, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Idempotency-Key", uuid.New().String())
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	ctx, span := c.tracer.Start(req.Context(), "orderstore."+req.Method,
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.Path),
		))
	defer span.End()
	req = req.WithContext(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limiter")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}
