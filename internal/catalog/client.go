package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 8 * time.Second

// Client fetches the product array from the remote sheet API. Responses are
// cached in memory for a short TTL so a render pass with several product
// sections costs one fetch.
type Client struct {
	baseURL string
	storeID string
	http    *http.Client
	ttl     time.Duration

	mu      sync.Mutex
	cached  []Product
	expires time.Time
}

// ClientOption customises the catalog client.
type ClientOption func(*Client)

// WithStoreID scopes product fetches to a KOL sub-store.
func WithStoreID(id string) ClientOption {
	return func(c *Client) { c.storeID = strings.TrimSpace(id) }
}

// WithCacheTTL overrides the in-memory cache duration.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client (primarily for tests).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient constructs a product provider against the remote sheet API.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		ttl:     5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Products implements Provider. The sheet serialises options as a string
// column, so each row's options are re-parsed leniently after decode.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	c.mu.Lock()
	if c.cached != nil && time.Now().Before(c.expires) {
		products := c.cached
		c.mu.Unlock()
		return products, nil
	}
	c.mu.Unlock()

	products, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = products
	c.expires = time.Now().Add(c.ttl)
	c.mu.Unlock()
	return products, nil
}

func (c *Client) fetch(ctx context.Context) ([]Product, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("catalog: base URL not configured")
	}
	endpoint, err := url.JoinPath(c.baseURL, "products")
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.storeID != "" {
		q := req.URL.Query()
		q.Set("store", c.storeID)
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("catalog: products status %d: %s", resp.StatusCode, drainError(resp.Body))
	}

	var rows []productRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toProduct())
	}
	return products, nil
}

// productRow tolerates the sheet's loose typing: options arrive either as a
// serialized string or as a JSON object, price fields as numbers.
type productRow struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    int             `json:"price"`
	Cost     int             `json:"cost"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Stock    int             `json:"stock"`
	Status   string          `json:"status"`
	Badge    string          `json:"badge"`
	Options  json.RawMessage `json:"options"`
	Variants []Variant       `json:"variants"`
}

func (r productRow) toProduct() Product {
	p := Product{
		ID:       strings.TrimSpace(r.ID),
		Name:     strings.TrimSpace(r.Name),
		Price:    r.Price,
		Cost:     r.Cost,
		Image:    strings.TrimSpace(r.Image),
		Category: strings.TrimSpace(r.Category),
		Stock:    r.Stock,
		Status:   strings.TrimSpace(r.Status),
		Badge:    strings.TrimSpace(r.Badge),
		Variants: r.Variants,
	}
	p.Options = decodeOptionsColumn(r.Options)
	return p
}

func decodeOptionsColumn(raw json.RawMessage) Options {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var serialized string
		if err := json.Unmarshal(raw, &serialized); err != nil {
			return nil
		}
		return ParseOptions(serialized)
	}
	var opts Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil
	}
	return opts
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
