// Package prices fetches cryptocurrency spot prices from a public JSON
// feed, degrading per pair when the feed has gaps.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zenc-cp/clawwork-cloud-api/src/webclient"
)

const (
	defaultBaseURL  = "https://api.coingecko.com/api/v3"
	defaultCurrency = "usd"
)

// Quote is one asset's spot price. A missing asset carries Error
// instead of failing the whole batch.
type Quote struct {
	Asset    string  `json:"asset"`
	Currency string  `json:"currency"`
	Price    float64 `json:"price,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Client talks to the price feed.
type Client struct {
	baseURL  string
	currency string
	client   *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithBaseURL points the client at a different feed host (tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithCurrency changes the quote currency.
func WithCurrency(cur string) Option {
	return func(c *Client) { c.currency = cur }
}

// NewClient builds a feed client with a bounded timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		currency: defaultCurrency,
		client:   webclient.NewDefault(15 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Spot fetches prices for the given asset ids in one batch. Assets the
// feed does not know come back as error quotes; only a failed request
// is a top-level error.
func (c *Client) Spot(ctx context.Context, assets []string) ([]Quote, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("prices: no assets requested")
	}

	q := url.Values{
		"ids":           {strings.Join(assets, ",")},
		"vs_currencies": {c.currency},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("prices: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prices: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prices: feed returned status %d", resp.StatusCode)
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("prices: decode response: %w", err)
	}

	quotes := make([]Quote, 0, len(assets))
	for _, asset := range assets {
		quote := Quote{Asset: asset, Currency: c.currency}
		if entry, ok := payload[asset]; ok {
			if price, ok := entry[c.currency]; ok {
				quote.Price = price
			} else {
				quote.Error = "currency not quoted"
			}
		} else {
			quote.Error = "asset not found"
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}
