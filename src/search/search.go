// Package search provides the web search collaborator used by the
// research pipeline: a query goes in, ranked snippets come out.
package search

import "context"

// Result is one ranked search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider answers text queries with ranked results. Implementations
// return typed errors and never panic; an empty slice is a valid
// answer.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
