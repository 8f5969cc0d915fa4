// Package cache stores derived, reproducible artifacts: constraint graphs and
// their renders. Generated layouts are never cached; every layout request
// runs the model.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [MemoryCache]: bounded in-process LRU, the server default
//   - [RedisCache]: shared between server replicas
//
// Keys come from a [Keyer] so that callers never build key strings by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.GraphKey(catalogHash, []string{"living_room", "kitchen"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLGraph  = 7 * 24 * time.Hour
	TTLRender = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get reports a miss with hit == false and a nil error. A zero ttl in Set
// means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
