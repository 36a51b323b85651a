// Package orderapi — HTTP-клиент внешнего API заказов.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Gunvolt24/orderfeed/internal/domain"
	"github.com/Gunvolt24/orderfeed/internal/ports"
)

var _ ports.OrderAPI = (*Client)(nil)

const maxErrorBody = 4 << 10

// APIError — ответ API с неуспешным статусом.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("order api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("order api: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient — timeout ограничивает весь запрос, включая чтение тела.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// FetchPendingOrders — GET /orders/pending?userId=&serviceArea=
func (c *Client) FetchPendingOrders(ctx context.Context, userID, serviceAreaCode string) ([]domain.Order, error) {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("serviceArea", serviceAreaCode)

	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/pending?"+q.Encode(), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AcceptOrder — POST /orders/{id}/accept {"actorId"} → {"message"}
func (c *Client) AcceptOrder(ctx context.Context, orderID, actorID string) (domain.AcceptResult, error) {
	body := struct {
		ActorID string `json:"actorId"`
	}{ActorID: actorID}

	var res domain.AcceptResult
	if err := c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/accept", body, &res); err != nil {
		return domain.AcceptResult{}, err
	}
	if res.OrderID == "" {
		res.OrderID = orderID
	}
	return res, nil
}

// FetchAssignedOrders — GET /orders/assigned?actorId=
func (c *Client) FetchAssignedOrders(ctx context.Context, actorID string) ([]domain.Order, error) {
	q := url.Values{}
	q.Set("actorId", actorID)

	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/assigned?"+q.Encode(), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage — поле message/error из JSON-тела, иначе тело как есть.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
