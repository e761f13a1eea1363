// Package client is the typed HTTP client the agent process uses to
// drive the ClawWork API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
	"github.com/zenc-cp/clawwork-cloud-api/src/orders"
	"github.com/zenc-cp/clawwork-cloud-api/src/research"
	"github.com/zenc-cp/clawwork-cloud-api/src/webclient"
)

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		// research runs pace their queries, so the deadline is long
		client: webclient.NewDefault(5 * time.Minute),
	}
}

// Authenticate exchanges the service key for a bearer token used on
// all subsequent calls.
func (c *Client) Authenticate(ctx context.Context, serviceKey, subject string) error {
	var out struct {
		Token string `json:"token"`
	}
	err := c.call(ctx, http.MethodPost, "/v1/auth/token", map[string]any{
		"service_key": serviceKey,
		"subject":     subject,
	}, &out)
	if err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

func (c *Client) Status(ctx context.Context) (*economics.Snapshot, error) {
	var snap economics.Snapshot
	if err := c.call(ctx, http.MethodGet, "/status", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

type OrderRequest struct {
	GigType      string `json:"gig_type"`
	Buyer        string `json:"buyer"`
	Requirements string `json:"requirements,omitempty"`
	Industry     string `json:"industry,omitempty"`
	TargetMarket string `json:"target_market,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*orders.Order, error) {
	var o orders.Order
	if err := c.call(ctx, http.MethodPost, "/v1/orders", req, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*orders.Order, error) {
	var o orders.Order
	if err := c.call(ctx, http.MethodGet, "/v1/orders/"+id, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

type Delivery struct {
	Order    orders.Order `json:"order"`
	Credited float64      `json:"credited"`
}

func (c *Client) DeliverOrder(ctx context.Context, id string) (*Delivery, error) {
	var d Delivery
	if err := c.call(ctx, http.MethodPost, "/v1/orders/"+id+"/deliver", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) RunResearch(ctx context.Context, industry, targetMarket string) (*research.Report, error) {
	var report research.Report
	err := c.call(ctx, http.MethodPost, "/v1/research", map[string]any{
		"industry":      industry,
		"target_market": targetMarket,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
