// Package cache stores rendered flame graph artifacts.
//
// Rendering is a pure function of the input text and the render options, so
// an artifact can be cached under a key derived from the hash of both. The
// CLI uses a [FileCache] under the user cache directory, the render server
// can share a [RedisCache] between instances, and [NullCache] disables
// caching.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(input), cache.ArtifactKeyOpts{
//	    Format:  "svg",
//	    Options: optionsHash,
//	})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    // serve cached bytes
//	}
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying connection.
	Close() error
}
