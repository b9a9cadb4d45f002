// Package cache provides byte-level caching for computed layouts and render
// artifacts.
//
// Layout computation is a pure function of the graph snapshot, so results can
// be memoized keyed on a content hash of the serialized graph. The [Cache]
// interface has three implementations:
//
//   - [FileCache]: directory-backed, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disables caching
//
// Keys are derived with [LayoutKey] and [ArtifactKey] from SHA-256 content
// hashes, so a stale entry can never be served for a modified graph.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by backends for operations that require an
// existing entry.
var ErrNotFound = errors.New("not found")

// Cache is the interface for cache backends. Implementations must treat a
// missing key as a miss (ok=false), never as an error.
type Cache interface {
	// Get retrieves a value. ok is false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKey builds the cache key for a computed layout from the content hash
// of the serialized graph snapshot.
func LayoutKey(graphHash string) string {
	return "layout:" + graphHash
}

// ArtifactKey builds the cache key for a rendered artifact (svg, png, ...)
// from the content hash of the serialized layout.
func ArtifactKey(layoutHash, format string) string {
	return "artifact:" + format + ":" + layoutHash
}
