// Package pagecache memoizes fetched page content with a fixed TTL and
// deduplicates concurrent in-flight fetches for the same identifier.
package pagecache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"inkwell/internal/config"
)

// FetchFunc loads content for an identifier when the cache cannot serve it.
type FetchFunc[T any] func(ctx context.Context, id string) (T, error)

// Metrics receives cache outcome notifications. Implementations must be
// safe for concurrent use; a nil Metrics disables recording.
type Metrics interface {
	CacheHit()
	CacheMiss()
}

type entry[T any] struct {
	data      T
	timestamp time.Time
}

// Cache memoizes fetch results per identifier.
//
// Every Get enters a singleflight group keyed by identifier, so under
// concurrent callers exactly one upstream fetch occurs; the flight leader
// consults the TTL cache before fetching, and the in-flight registration
// is removed on every exit path, success or failure. Expiry is lazy:
// entries are validated on read and replaced wholesale on refetch, never
// mutated in place. Entry count is bounded by distinct identifiers
// visited, so there is no background sweep.
type Cache[T any] struct {
	ttl     time.Duration
	now     func() time.Time
	fetch   FetchFunc[T]
	metrics Metrics

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]entry[T]
}

// Option configures a Cache.
type Option[T any] func(*Cache[T])

// WithTTL overrides the default entry lifetime.
func WithTTL[T any](ttl time.Duration) Option[T] {
	return func(c *Cache[T]) { c.ttl = ttl }
}

// WithClock injects a clock for deterministic expiry tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) { c.now = now }
}

// WithMetrics attaches a cache outcome recorder.
func WithMetrics[T any](m Metrics) Option[T] {
	return func(c *Cache[T]) { c.metrics = m }
}

// New creates a cache around the given fetch function.
func New[T any](fetch FetchFunc[T], opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{
		ttl:     config.PageCacheTTL,
		now:     time.Now,
		fetch:   fetch,
		entries: make(map[string]entry[T]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns content for id, serving from cache while the entry is
// younger than the TTL. Concurrent callers for the same id share a single
// fetch and receive the same result. A failed fetch populates nothing, so
// the next call retries fresh.
func (c *Cache[T]) Get(ctx context.Context, id string) (T, error) {
	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		if data, ok := c.lookup(id); ok {
			c.recordHit()
			return data, nil
		}
		c.recordMiss()

		data, err := c.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		c.store(id, data)
		return data, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops the entry for id, forcing the next Get to refetch.
func (c *Cache[T]) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

func (c *Cache[T]) lookup(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || c.now().Sub(e.timestamp) >= c.ttl {
		var zero T
		return zero, false
	}
	return e.data, true
}

func (c *Cache[T]) store(id string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = entry[T]{data: data, timestamp: c.now()}
}

func (c *Cache[T]) recordHit() {
	if c.metrics != nil {
		c.metrics.CacheHit()
	}
}

func (c *Cache[T]) recordMiss() {
	if c.metrics != nil {
		c.metrics.CacheMiss()
	}
}
