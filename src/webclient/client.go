// Package webclient builds the outbound HTTP clients shared by the
// API collaborators. Every external call in the process goes through
// a client from here, so nothing can hang without a deadline.
package webclient

import (
	"net/http"
	"time"
)

// NewDefault returns an HTTP client with a hard request timeout. A
// zero timeout gets the 60s default rather than no timeout at all.
func NewDefault(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
