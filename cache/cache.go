// Package cache provides the bounded, TTL-expiring result cache used by
// the Interpretation Service (component I): identical (chords,
// parent_key, options) requests are served without re-running the
// analyzer fan-out (spec §4.I).
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache wraps an expirable LRU keyed by request fingerprint. The value
// type is left as any so callers in different packages (interpretation
// results, suggestion results) can share one cache implementation
// without this package importing either of them.
type Cache struct {
	lru *lru.LRU[string, any]
}

// New builds a Cache with the given capacity and per-entry TTL (spec
// §4.I: default capacity 500, TTL 10 minutes, from config.Default()).
func New(capacity int, ttl time.Duration) *Cache {
	return &Cache{lru: lru.NewLRU[string, any](capacity, nil, ttl)}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	return c.lru.Get(key)
}

// Set stores value under key, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Set(key string, value any) {
	c.lru.Add(key, value)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
