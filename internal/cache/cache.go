// Package cache provides a small read-through cache with
// stale-while-revalidate semantics for slow-changing page data
// (branding, categories, cart badge counts). It is deliberately
// independent of any fetching layer: callers hand Get a loader and the
// cache decides whether to serve, refresh in the background, or load
// synchronously.
package cache

import (
	"context"
	"sync"
	"time"
)

// Loader produces a fresh value for a key.
type Loader[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value      V
	fetchedAt  time.Time
	refreshing bool
}

// Cache is a keyed read-through cache. Values older than FreshFor are
// served stale once while a single background refresh runs; values
// older than StaleFor are reloaded synchronously.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  map[string]*entry[V]
	freshFor time.Duration
	staleFor time.Duration
}

// New creates a cache. freshFor is how long a value is served without
// any refresh; staleFor is how long past that it may still be served
// while a revalidation runs in the background.
func New[V any](freshFor, staleFor time.Duration) *Cache[V] {
	return &Cache[V]{
		entries:  make(map[string]*entry[V]),
		freshFor: freshFor,
		staleFor: staleFor,
	}
}

// Get returns the cached value for key, consulting load as needed.
// Fresh values are returned as-is. Stale values are returned
// immediately while at most one goroutine revalidates. Expired or
// missing values are loaded synchronously.
func (c *Cache[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		age := time.Since(e.fetchedAt)
		if age < c.freshFor {
			value := e.value
			c.mu.Unlock()
			return value, nil
		}
		if age < c.freshFor+c.staleFor {
			value := e.value
			if !e.refreshing {
				e.refreshing = true
				go c.revalidate(key, load)
			}
			c.mu.Unlock()
			return value, nil
		}
	}
	c.mu.Unlock()

	return c.Refetch(ctx, key, load)
}

// Refetch loads key synchronously and replaces the cached value.
func (c *Cache[V]) Refetch(ctx context.Context, key string, load Loader[V]) (V, error) {
	value, err := load(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = &entry[V]{value: value, fetchedAt: time.Now()}
	c.mu.Unlock()

	return value, nil
}

// Invalidate drops the cached value for key; the next Get reloads.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// revalidate refreshes key in the background. A failed refresh keeps
// the stale value and clears the refreshing flag so a later Get retries.
func (c *Cache[V]) revalidate(key string, load Loader[V]) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	value, err := load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return
	}
	if err != nil {
		e.refreshing = false
		return
	}
	c.entries[key] = &entry[V]{value: value, fetchedAt: time.Now()}
}
