package translate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheKeyDiscriminates(t *testing.T) {
	base := CacheKey("google", "en", "zh-CN", "hello")
	others := []string{
		CacheKey("deepl", "en", "zh-CN", "hello"),
		CacheKey("google", "fr", "zh-CN", "hello"),
		CacheKey("google", "en", "zh-TW", "hello"),
		CacheKey("google", "en", "zh-CN", "hello "),
	}
	for i, k := range others {
		if k == base {
			t.Fatalf("key %d collides with base", i)
		}
	}
	if again := CacheKey("google", "en", "zh-CN", "hello"); again != base {
		t.Fatal("same inputs produced different keys")
	}
}

func TestCacheHitMissCounts(t *testing.T) {
	c := NewCache(10)
	if _, ok := c.Get("k"); ok {
		t.Fatal("empty cache reported a hit")
	}
	c.Put("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("Get = %q,%v", v, ok)
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("stats hits=%d misses=%d, want 1/1", hits, misses)
	}
}

func TestCacheCapacityBound(t *testing.T) {
	c := NewCache(2)
	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("c", "3")
	if got := c.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2 at capacity", got)
	}
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Fatal("newest entry not admitted")
	}
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	c := NewCache(2)
	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("a", "updated")
	if got := c.Len(); got != 2 {
		t.Fatalf("Len = %d, want 2", got)
	}
	if v, _ := c.Get("a"); v != "updated" {
		t.Fatalf("a = %q, want updated", v)
	}
	if v, ok := c.Get("b"); !ok || v != "2" {
		t.Fatal("overwrite evicted a sibling entry")
	}
}

func TestCacheSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := NewCache(10)
	c.Put(CacheKey("google", "en", "zh-CN", "hello"), "你好")
	c.Put(CacheKey("google", "en", "zh-CN", "world"), "世界")
	if err := c.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	loaded, err := LoadCache(path, 10)
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if got := loaded.Len(); got != 2 {
		t.Fatalf("loaded %d entries, want 2", got)
	}
	if v, ok := loaded.Get(CacheKey("google", "en", "zh-CN", "hello")); !ok || v != "你好" {
		t.Fatalf("loaded entry = %q,%v", v, ok)
	}
}

func TestLoadCacheMissingFile(t *testing.T) {
	c, err := LoadCache(filepath.Join(t.TempDir(), "absent.json"), 10)
	if err != nil {
		t.Fatalf("missing file should give a fresh cache, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("fresh cache has %d entries", c.Len())
	}
}

func TestLoadCacheCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCache(path, 10); err == nil {
		t.Fatal("corrupt cache file loaded without error")
	}
}
