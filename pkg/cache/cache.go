// Package cache stores rendered disk artifacts keyed by their full input
// fingerprint, so re-rendering an unchanged listing with an unchanged style
// is a byte read instead of a rasterization pass.
package cache

import (
	"context"
	"time"
)

// TTLArtifact bounds how long a rendered artifact stays cached. Inputs are
// content-hashed, so expiry only limits store growth, never staleness.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is the artifact store. Implementations must treat a missing key as a
// miss, never an error.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any underlying resources.
	Close() error
}

// ArtifactKeyOpts are the render parameters that participate in the artifact
// cache key. Any field that changes the output bytes must be present here.
type ArtifactKeyOpts struct {
	StyleHash      string
	Side           int
	Format         string
	Width          float64
	Height         float64
	Supersample    int
	MinRadiusRatio float64
	IndexAngle     float64
	Title          string
}

// ArtifactKey builds the cache key for one rendered artifact from the
// listing content hash and the render parameters.
func ArtifactKey(listingHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", listingHash, opts)
}
