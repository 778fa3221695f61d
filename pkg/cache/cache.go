package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Service defines the behavior for response caching.
type Service interface {
	// Get retrieves a value from the cache. The second return value
	// reports whether the key was present.
	Get(key string) (interface{}, bool)

	// Set adds a value to the cache with a TTL.
	Set(key string, value interface{}, duration time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// Flush removes all items.
	Flush()
}

type memoryCache struct {
	store *gocache.Cache
}

// NewMemory creates an in-memory cache service.
// defaultExpiration: default TTL for items.
// cleanupInterval: how often to scan for expired items.
func NewMemory(defaultExpiration, cleanupInterval time.Duration) Service {
	return &memoryCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *memoryCache) Set(key string, value interface{}, duration time.Duration) {
	c.store.Set(key, value, duration)
}

func (c *memoryCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *memoryCache) Flush() {
	c.store.Flush()
}
