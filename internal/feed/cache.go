package feed

import (
	"sync"
	"time"
)

type cacheEntry[T any] struct {
	value   T
	expires time.Time
}

// ttlCache is a small in-memory cache keyed by normalized query text.
type ttlCache[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[string]cacheEntry[T]
}

func newTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	return &ttlCache[T]{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cacheEntry[T]),
	}
}

func (c *ttlCache[T]) get(key string) (T, bool) {
	var zero T
	if c == nil || c.ttl <= 0 {
		return zero, false
	}

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(entry.expires) {
		return zero, false
	}
	return entry.value, true
}

func (c *ttlCache[T]) put(key string, value T) {
	if c == nil || c.ttl <= 0 {
		return
	}

	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheEntry[T]{value: value, expires: now.Add(c.ttl)}

	// Expired entries are swept on write so the map cannot grow without bound.
	for k, e := range c.items {
		if !now.Before(e.expires) {
			delete(c.items, k)
		}
	}
}
