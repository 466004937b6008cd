// Package cache provides pluggable result caching for ordering runs.
//
// Ordering a large view-graph is cheap, but rendering and repeated CLI
// invocations on the same measurement file are not. The cache stores
// serialized results keyed by a content hash of the input graph, so
// identical inputs skip recomputation entirely.
//
// Three backends are provided:
//   - [FileCache]: directory-based cache for CLI usage
//   - [RedisCache]: shared cache for the HTTP service
//   - [NullCache]: no-op cache for tests or when caching is disabled
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends. Values are opaque byte
// slices; callers handle serialization.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was found;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A TTL of zero means no
	// expiration; a negative TTL is treated as already expired, so the
	// entry is never observable through Get.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the cache entry lifetime used when the caller does not
// configure one. Ordering results are pure functions of the input graph,
// so the TTL mostly bounds disk usage rather than staleness.
const DefaultTTL = 7 * 24 * time.Hour

// resultVersion is bumped whenever the serialized result schema changes,
// invalidating stale entries without a manual cache flush.
const resultVersion = "v1"

// ArtifactKeyOpts captures the render options that distinguish cached
// artifacts built from the same graph.
type ArtifactKeyOpts struct {
	Format            string // "dot", "svg", "png"
	HighlightOutliers bool
	Detailed          bool
}

// Keyer generates cache keys for the different result types.
type Keyer interface {
	// OrderingKey generates a key for a computed ordering and outlier
	// report, given the content hash of the input graph.
	OrderingKey(graphHash string) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// OrderingKey generates a key for ordering results.
func (k *DefaultKeyer) OrderingKey(graphHash string) string {
	return "ordering:" + resultVersion + ":" + graphHash
}

// ArtifactKey generates a key for rendered artifacts. The options are
// hashed into the key so different formats cache separately.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+resultVersion, graphHash, opts)
}
