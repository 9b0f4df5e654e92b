package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ovenshare/storefront/internal/domain"
	"github.com/ovenshare/storefront/pkg/httpclient"
)

// OrderClient submits and lists orders on the marketplace API.
type OrderClient struct {
	http    HTTPDoer
	baseURL string
}

// NewOrderClient creates an order client against the given base URL.
func NewOrderClient(httpDoer HTTPDoer, baseURL string) *OrderClient {
	return &OrderClient{
		http:    httpDoer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Create submits one vendor's order. The upstream creates the order
// atomically; there is no partial success within a single call.
func (c *OrderClient) Create(ctx context.Context, order domain.OrderRequest) (*domain.Order, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/order", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	attachAuth(ctx, req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "orders")
	}

	var created domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	return &created, nil
}

// List returns the caller's order history.
func (c *OrderClient) List(ctx context.Context) ([]domain.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/order", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create orders request: %w", err)
	}
	attachAuth(ctx, req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call orders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "orders")
	}

	var orders []domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("decode orders response: %w", err)
	}
	return orders, nil
}
