// Package integrations provides the shared HTTP plumbing for registry API
// clients: a caching GET client, retry with backoff, and the error taxonomy
// every registry client reports through.
package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a gem or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrBadStatus is returned for client-error responses other than 404.
	// Callers inspect it by value to distinguish rejected requests from
	// transport failures.
	ErrBadStatus = errors.New("bad response status")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NormalizeGemName converts a gem name to the lowercase, trimmed form used
// in registry API paths.
func NormalizeGemName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
