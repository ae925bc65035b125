// Package cache is a small TTL cache for market-data lookups that do not need
// to be re-fetched on every request, such as symbol search matches.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// Cache wraps a ristretto cache with a fixed TTL for every entry.
type Cache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

// New creates a cache holding at most maxItems entries, each expiring after ttl.
func New(maxItems int64, ttl time.Duration) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, ttl: ttl}, nil
}

// Get returns the value stored under key, if present and not expired.
func (c *Cache) Get(key string) (any, bool) { return c.c.Get(key) }

// Set stores val with unit cost. Writes are buffered; a Get straight after a Set
// may miss until Wait is called.
func (c *Cache) Set(key string, val any) { c.c.SetWithTTL(key, val, 1, c.ttl) }

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() { c.c.Wait() }

// Close stops the cache's background goroutines.
func (c *Cache) Close() { c.c.Close() }
