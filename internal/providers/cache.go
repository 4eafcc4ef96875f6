package providers

import (
	"context"
	"sync"
	"time"
)

// Cached is a single-value TTL cache: an explicit {value, fetchedAt} pair with
// a caller-supplied TTL, instead of ambient module state.
type Cached[T any] struct {
	mu        sync.Mutex
	value     T
	fetchedAt time.Time
}

// GetOrRefresh returns the cached value when it is younger than ttl, otherwise
// calls fetch and caches its result. Failed fetches are not cached; a stale
// value is kept for the next attempt but not returned as fresh.
func (c *Cached[T]) GetOrRefresh(ctx context.Context, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < ttl {
		return c.value, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = value
	c.fetchedAt = time.Now()
	return value, nil
}
