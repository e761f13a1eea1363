package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/OneOfOne/xxhash"
)

// Cached wraps a Provider with an in-memory TTL cache so repeated
// research runs against the same industry do not hammer the provider.
// Errors are never cached.
type Cached struct {
	inner Provider
	ttl   time.Duration
	max   int

	mu      sync.Mutex
	entries map[uint64]cacheEntry
}

type cacheEntry struct {
	results   []Result
	expiresAt time.Time
}

// NewCached wraps inner with a cache of at most max entries living ttl.
func NewCached(inner Provider, ttl time.Duration, max int) *Cached {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if max <= 0 {
		max = 256
	}
	return &Cached{
		inner:   inner,
		ttl:     ttl,
		max:     max,
		entries: make(map[uint64]cacheEntry),
	}
}

// Search serves from cache when a fresh entry exists, otherwise asks
// the wrapped provider and remembers the answer.
func (c *Cached) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	key := xxhash.ChecksumString64(fmt.Sprintf("%s|%d", query, maxResults))

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expiresAt) {
		results := make([]Result, len(e.results))
		copy(results, e.results)
		c.mu.Unlock()
		return results, nil
	}
	c.mu.Unlock()

	results, err := c.inner.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.entries) >= c.max {
		// Full: drop expired entries, or everything if none expired.
		now := time.Now()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= c.max {
			c.entries = make(map[uint64]cacheEntry)
		}
	}
	stored := make([]Result, len(results))
	copy(stored, results)
	c.entries[key] = cacheEntry{results: stored, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return results, nil
}
