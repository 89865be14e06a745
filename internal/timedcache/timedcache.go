// Package timedcache is a bounded cache whose entries expire after a fixed TTL.
package timedcache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache evicts least recently used entries beyond its size and treats entries older
// than the TTL as absent. Safe for concurrent use.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, entry[V]]
	ttl time.Duration
	now func() time.Time
}

type Option[K comparable, V any] func(*Cache[K, V])

// WithClock replaces time.Now for expiry checks.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *Cache[K, V]) { c.now = now }
}

func New[K comparable, V any](size int, ttl time.Duration, opts ...Option[K, V]) *Cache[K, V] {
	if size <= 0 {
		size = 1
	}
	c := &Cache[K, V]{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	// the LRU's own ttl only reclaims memory; expiry is decided against c.now
	c.lru = expirable.NewLRU[K, entry[V]](size, nil, ttl)
	return c
}

// Set stores value until now+TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.lru.Add(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Get returns a live entry.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Remaining reports how long key stays live; zero when absent.
func (c *Cache[K, V]) Remaining(key K) time.Duration {
	e, ok := c.lru.Peek(key)
	if !ok {
		return 0
	}
	return max(e.expiresAt.Sub(c.now()), 0)
}
