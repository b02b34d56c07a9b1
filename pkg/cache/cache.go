// Package cache provides pluggable byte-level caching for registry API
// responses.
//
// # Backends
//
// Three backends implement the [Cache] interface:
//   - [FileCache]: entries as files under a directory, for CLI usage
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [NullCache]: no-op backend that disables caching
//
// # Keys and TTL
//
// Keys are arbitrary strings; backends hash or escape them as needed.
// Namespacing is the caller's responsibility (e.g. "rubygems:gem:rails").
// Entries expire after the TTL passed to Set; a TTL of 0 means no
// expiration.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface implemented by all cache backends.
//
// Get returns the stored bytes and whether the key was found. A miss is
// (nil, false, nil); errors are reserved for backend failures. Expired
// entries are reported as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
