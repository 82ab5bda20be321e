package cache

import (
	"sync"
	"time"
)

// ValueCache holds a single value for a fixed TTL. It is safe for concurrent use.
type ValueCache[T any] struct {
	mu        sync.RWMutex
	value     T
	set       bool
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewValueCache creates a cache whose entries live for ttl. A zero ttl
// disables caching: Get always misses.
func NewValueCache[T any](ttl time.Duration) *ValueCache[T] {
	return &ValueCache[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached value while it is still valid.
func (c *ValueCache[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	if !c.set || !c.now().Before(c.expiresAt) {
		return zero, false
	}
	return c.value, true
}

// Set stores value for the configured TTL.
func (c *ValueCache[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.set = true
	c.expiresAt = c.now().Add(c.ttl)
}

// Clear drops the cached value, forcing the next Get to miss.
func (c *ValueCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.value = zero
	c.set = false
	c.expiresAt = time.Time{}
}
