package tasks

import "sync"

// ResponseCache maps request keys to responses. Entries never expire and are never evicted.
type ResponseCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
}

// NewResponseCache returns an empty cache.
func NewResponseCache[V any]() *ResponseCache[V] {
	return &ResponseCache[V]{entries: make(map[string]V)}
}

// Get returns the entry at key.
func (c *ResponseCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set stores v at key, replacing any existing entry.
func (c *ResponseCache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

// Has reports whether key is cached.
func (c *ResponseCache[V]) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Len returns the number of entries.
func (c *ResponseCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Fetch returns the entry at key, calling load and caching its result on a miss.
// Failed loads are not cached. The lock is not held while load runs.
func (c *ResponseCache[V]) Fetch(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, v)
	return v, nil
}
