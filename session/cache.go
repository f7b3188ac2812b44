package session

import (
	"encoding/json"
	"log"
	"sync"
)

// KeyValueCache is a best-effort string store. Misses and stale entries
// never block a load; they only forgo the instant paint.
type KeyValueCache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// CacheKey namespaces a cache entry by resource type and owner id
func CacheKey(resource, owner string) string {
	if owner == "" {
		owner = "all"
	}
	return "crm:" + resource + ":" + owner
}

// MemoryCache is an in-process KeyValueCache
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]string)}
}

// Get returns the value stored under key
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Set stores value under key
func (c *MemoryCache) Set(key, value string) {
	c.mu.Lock()
	c.data[key] = value
	c.mu.Unlock()
}

// Len is the number of entries
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func loadCached[T any](cache KeyValueCache, key string) (T, bool) {
	var v T
	if cache == nil || key == "" {
		return v, false
	}
	s, ok := cache.Get(key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		log.Printf("[CACHE] ignoring unreadable entry %s: %v", key, err)
		return v, false
	}
	return v, true
}

func storeCached(cache KeyValueCache, key string, v any) {
	if cache == nil || key == "" {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[CACHE] failed to encode %s: %v", key, err)
		return
	}
	cache.Set(key, string(b))
}
