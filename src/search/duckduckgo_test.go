package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const samplePage = `
<div class="result">
  <a class="result__a" href="https://example.com/fintech-report">Fintech Market Report 2026</a>
  <a class="result__snippet" href="#">The global <b>fintech</b> market reached $340B in 2026.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.org/top-firms">Top Fintech Companies</a>
  <a class="result__snippet" href="#">Leading firms include several APAC challengers.</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.net/no-snippet">Bare Result</a>
</div>
`

func TestParseResults(t *testing.T) {
	results := parseResults(samplePage, 5)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	first := results[0]
	if first.URL != "https://example.com/fintech-report" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Title != "Fintech Market Report 2026" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Snippet != "The global fintech market reached $340B in 2026." {
		t.Errorf("snippet not stripped of tags: %q", first.Snippet)
	}
	if results[2].Snippet != "" {
		t.Errorf("missing snippet should be empty, got %q", results[2].Snippet)
	}
}

func TestParseResultsRespectsMax(t *testing.T) {
	if got := parseResults(samplePage, 1); len(got) != 1 {
		t.Errorf("got %d results, want 1", len(got))
	}
	if got := parseResults("<html>no results here</html>", 5); len(got) != 0 {
		t.Errorf("got %d results from empty page, want 0", len(got))
	}
}

func TestDuckDuckGoSearch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotQuery = r.PostFormValue("q")
		w.Write([]byte(samplePage))
	}))
	t.Cleanup(server.Close)

	d := NewDuckDuckGo(WithEndpoint(server.URL))
	results, err := d.Search(context.Background(), "fintech market size global 2026", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gotQuery != "fintech market size global 2026" {
		t.Errorf("posted query = %q", gotQuery)
	}
	if len(results) != 3 {
		t.Errorf("got %d results, want 3", len(results))
	}
}

func TestDuckDuckGoSearchUpstreamStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	d := NewDuckDuckGo(WithEndpoint(server.URL))
	if _, err := d.Search(context.Background(), "q", 5); err == nil {
		t.Fatal("Search() expected error for 429 response")
	}
}

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return []Result{{Title: "t", URL: "u", Snippet: "s"}}, nil
}

func TestCachedSearchHitsOnce(t *testing.T) {
	inner := &countingProvider{}
	c := NewCached(inner, time.Minute, 16)

	for i := 0; i < 3; i++ {
		results, err := c.Search(context.Background(), "same query", 5)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d results", len(results))
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner provider called %d times, want 1", inner.calls)
	}

	if _, err := c.Search(context.Background(), "different query", 5); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner provider called %d times, want 2", inner.calls)
	}
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("throttled")}
	c := NewCached(inner, time.Minute, 16)

	for i := 0; i < 2; i++ {
		if _, err := c.Search(context.Background(), "q", 5); err == nil {
			t.Fatal("Search() expected error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner provider called %d times, want 2 (errors not cached)", inner.calls)
	}
}
