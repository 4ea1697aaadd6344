// Package cache provides a small bounded cache with first-in first-out eviction.
package cache

import "sync"

// Cache maps keys to values and keeps a bounded number of entries. When an
// insert would overflow, a fixed number of the oldest entries is dropped.
type Cache[K comparable, V any] struct {
	mu    sync.Mutex
	limit int
	evict int
	order []K
	items map[K]V
}

// New returns a cache holding up to limit entries that drops evict entries at
// a time on overflow. evict <= 0 drops half the cache.
func New[K comparable, V any](limit, evict int) *Cache[K, V] {
	limit = max(1, limit)
	if evict <= 0 {
		evict = max(1, limit/2)
	}
	return &Cache[K, V]{
		limit: limit,
		evict: min(evict, limit),
		items: make(map[K]V, limit),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

// Put stores value under key. Replacing an existing key keeps its age.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		c.items[key] = value
		return
	}
	if len(c.order) >= c.limit {
		n := min(c.evict, len(c.order))
		for _, k := range c.order[:n] {
			delete(c.items, k)
		}
		c.order = append(c.order[:0], c.order[n:]...)
	}
	c.order = append(c.order, key)
	c.items[key] = value
}

// GetOrLoad returns the cached value or calls load and stores its result.
// Errors are not cached. load runs without the lock held, so two callers
// may load the same key concurrently; the later Put wins.
func (c *Cache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Put(key, v)
	return v, nil
}

func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear drops every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = c.order[:0]
	clear(c.items)
}
