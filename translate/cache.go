package translate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
)

// DefaultCacheCapacity bounds the cache when the caller does not.
const DefaultCacheCapacity = 1000

// CacheKey derives the cache key for one translation. Engine and language
// pair are part of the key so switching either never serves stale text.
func CacheKey(engine, source, target, text string) string {
	sum := sha256.Sum256([]byte(engine + "\x00" + source + "\x00" + target + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Cache memoizes translations. It is safe for concurrent use and bounded:
// at capacity an arbitrary entry is evicted to admit the new one.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
	cap     int
	hits    int64
	misses  int64
}

// NewCache returns an empty cache holding at most capacity entries.
// Non-positive capacity gets DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{entries: make(map[string]string), cap: capacity}
}

// Get looks up a key, counting the hit or miss.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		atomic.AddInt64(&c.hits, 1)
	} else {
		atomic.AddInt64(&c.misses, 1)
	}
	return v, ok
}

// Put stores a translation under key.
func (c *Cache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.cap {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = value
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats reports the hit and miss counts since construction.
func (c *Cache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

type cacheFile struct {
	Entries map[string]string `json:"entries"`
}

// SaveFile writes the cache contents as JSON.
func (c *Cache) SaveFile(path string) error {
	c.mu.RLock()
	file := cacheFile{Entries: make(map[string]string, len(c.entries))}
	for k, v := range c.entries {
		file.Entries[k] = v
	}
	c.mu.RUnlock()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode translation cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write translation cache: %w", err)
	}
	return nil
}

// LoadCache reads a cache previously written by SaveFile. A missing file
// yields a fresh empty cache; a corrupt one is an error.
func LoadCache(path string, capacity int) (*Cache, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewCache(capacity), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read translation cache: %w", err)
	}
	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode translation cache: %w", err)
	}
	c := NewCache(capacity)
	for k, v := range file.Entries {
		c.Put(k, v)
	}
	return c, nil
}
