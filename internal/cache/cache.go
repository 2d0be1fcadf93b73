// Package cache holds an in-process, TTL-bounded read-through cache.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc loads the value of a key on a cache miss.
type LoadFunc[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value   V
	expires time.Time
}

// Cache is a read-through cache. Concurrent misses on the same key share one
// load. A value loaded while its key was invalidated is returned to the
// waiting callers but not stored.
type Cache[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu          sync.Mutex
	entries     map[string]entry[V]
	generations map[string]uint64
	epoch       uint64

	group singleflight.Group
}

// New creates a cache whose entries live for ttl. A zero ttl disables caching.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]entry[V]),
		generations: make(map[string]uint64),
	}
}

// Get returns the cached value of key, loading it with load on a miss.
func (c *Cache[V]) Get(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	// Callers may pass strings aliasing reused buffers.
	key = strings.Clone(key)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.Lock()
		gen, epoch := c.generations[key], c.epoch
		c.mu.Unlock()

		value, err := load(ctx)
		if err != nil {
			return value, err
		}

		c.mu.Lock()
		if c.ttl > 0 && gen == c.generations[key] && epoch == c.epoch {
			c.entries[key] = entry[V]{value: value, expires: c.now().Add(c.ttl)}
		}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Invalidate drops key, including any load of it already in flight.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.generations[key]++
	c.mu.Unlock()
	c.group.Forget(key)
}

// InvalidateAll drops every entry.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.generations = make(map[string]uint64)
	c.epoch++
	c.mu.Unlock()
}

// Len reports how many entries are stored, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
