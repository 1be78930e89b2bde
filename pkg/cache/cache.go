// Package cache stores rendered artifacts (SVG and DOT output of recipe and
// usage trees) so repeated requests skip graphviz.
//
// Three backends implement [Cache]:
//   - [FileCache] for the CLI, under the user cache directory
//   - [RedisCache] for the HTTP server, shared between replicas
//   - [NullCache] when caching is disabled
//
// Keys are built by a [Keyer]. [DefaultKeyer] folds every input that changes
// the artifact bytes (data hash, tree kind, component, format and render
// options) into a SHA-256 key, so entries never need explicit invalidation
// when the formula data changes.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A zero ttl stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
