package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/zenc-cp/clawwork-cloud-api/src/webclient"
)

const (
	ddgEndpoint       = "https://html.duckduckgo.com/html/"
	defaultMaxResults = 8
)

var (
	linkRe    = regexp.MustCompile(`class="result__a"[^>]*href="([^"]+)"[^>]*>([^<]+)`)
	snippetRe = regexp.MustCompile(`(?s)class="result__snippet"[^>]*>(.*?)</a>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
)

// DuckDuckGo scrapes the HTML search endpoint, which needs no API key.
type DuckDuckGo struct {
	endpoint string
	client   *http.Client
}

// DuckDuckGoOption customizes the provider.
type DuckDuckGoOption func(*DuckDuckGo)

// WithEndpoint overrides the search endpoint (tests).
func WithEndpoint(u string) DuckDuckGoOption {
	return func(d *DuckDuckGo) { d.endpoint = u }
}

// NewDuckDuckGo builds the provider with a bounded network timeout.
func NewDuckDuckGo(opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		endpoint: ddgEndpoint,
		client:   webclient.NewDefault(30 * time.Second),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search posts the query and extracts up to maxResults hits from the
// result page.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: query %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search: provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}

	return parseResults(string(body), maxResults), nil
}

// parseResults pulls links, titles and snippets out of the raw result
// HTML. Snippets are aligned to links by position; missing snippets
// come back empty rather than shifting the rest.
func parseResults(page string, maxResults int) []Result {
	links := linkRe.FindAllStringSubmatch(page, -1)
	snippets := snippetRe.FindAllStringSubmatch(page, -1)

	results := make([]Result, 0, maxResults)
	for i, link := range links {
		if i >= maxResults {
			break
		}
		snippet := ""
		if i < len(snippets) {
			snippet = strings.TrimSpace(tagRe.ReplaceAllString(snippets[i][1], ""))
		}
		results = append(results, Result{
			URL:     link[1],
			Title:   strings.TrimSpace(link[2]),
			Snippet: snippet,
		})
	}
	return results
}
