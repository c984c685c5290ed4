package cache

import (
	"context"
	"time"
)

// ComputeFn produces the value for a cache key on miss.
type ComputeFn func(ctx context.Context) ([]byte, error)

// TagCache is a tag-scoped response cache. Entries are stored under a key,
// registered against a tag, and expire after a TTL. Invalidating a tag drops
// every entry registered under it regardless of remaining TTL.
//
// Implementations must treat the backing store as an accelerator only: a
// backend outage degrades GetOrCompute to a direct compute call and is never
// surfaced to the caller.
type TagCache interface {
	// GetOrCompute returns the cached value for key if present and
	// unexpired; otherwise it runs compute, stores the result under key
	// tagged with tag for ttl, and returns it.
	GetOrCompute(ctx context.Context, key, tag string, ttl time.Duration, compute ComputeFn) ([]byte, error)

	// InvalidateTag removes all entries registered under tag.
	InvalidateTag(ctx context.Context, tag string) error

	// Ping checks the backend connection.
	Ping(ctx context.Context) error
}
