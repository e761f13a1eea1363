package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zenc-cp/clawwork-cloud-api/src/webclient"
)

const defaultBaseURL = "https://api.twitter.com/1.1"

// Response is the typed result of one authenticated call.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Client performs authenticated calls against the social API. Every
// request is signed by the one Signer routine; there is no unsigned
// path.
type Client struct {
	signer  *Signer
	baseURL string
	client  *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different API host (tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.client = h }
}

// NewClient builds the client, failing fast on missing credentials.
func NewClient(creds Credentials, opts ...ClientOption) (*Client, error) {
	signer, err := NewSigner(creds)
	if err != nil {
		return nil, err
	}
	c := &Client{
		signer:  signer,
		baseURL: defaultBaseURL,
		client:  webclient.NewDefault(30 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Status is a posted status update.
type Status struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Account identifies the authenticated user.
type Account struct {
	ID         int64  `json:"id"`
	ScreenName string `json:"screen_name"`
}

// PostStatus publishes a status update.
func (c *Client) PostStatus(ctx context.Context, text string) (*Status, error) {
	resp, err := c.Call(ctx, http.MethodPost, c.baseURL+"/statuses/update.json", map[string]string{
		"status": text,
	})
	if err != nil {
		return nil, err
	}
	var st Status
	if err := json.Unmarshal(resp.Body, &st); err != nil {
		return nil, fmt.Errorf("social: decode status: %w", err)
	}
	return &st, nil
}

// VerifyCredentials checks the configured credentials against the API.
func (c *Client) VerifyCredentials(ctx context.Context) (*Account, error) {
	resp, err := c.Call(ctx, http.MethodGet, c.baseURL+"/account/verify_credentials.json", nil)
	if err != nil {
		return nil, err
	}
	var acct Account
	if err := json.Unmarshal(resp.Body, &acct); err != nil {
		return nil, fmt.Errorf("social: decode account: %w", err)
	}
	return &acct, nil
}

// Call signs and performs one request. params ride in the query string
// for GET and the form body otherwise, and always participate in the
// signature. Non-2xx responses are upstream errors carrying the body.
func (c *Client) Call(ctx context.Context, method, rawURL string, params map[string]string) (*Response, error) {
	header, err := c.signer.AuthorizationHeader(method, rawURL, params)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}

	var req *http.Request
	if method == http.MethodGet {
		target := rawURL
		if len(values) > 0 {
			target += "?" + values.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, method, target, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, rawURL, strings.NewReader(values.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("social: build request: %w", err)
	}
	req.Header.Set("Authorization", header)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("social: %s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("social: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("social: API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
