package fonts

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func writeTestFont(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	return path
}

func TestCacheLoadReuse(t *testing.T) {
	cache := NewCache()
	path := writeTestFont(t)

	a, err := cache.Load(path, 16)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := cache.Load(path, 16)
	if err != nil {
		t.Fatalf("Load again: %v", err)
	}
	if a != b {
		t.Fatal("same (path,size) produced distinct handles")
	}
	c, err := cache.Load(path, 32)
	if err != nil {
		t.Fatalf("Load size 32: %v", err)
	}
	if c == a {
		t.Fatal("distinct sizes share a handle")
	}
}

func TestCacheLoadErrors(t *testing.T) {
	cache := NewCache()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.ttf"), 16); err == nil {
		t.Fatal("missing file loaded")
	}
	if _, err := cache.Load(writeTestFont(t), 0); err == nil {
		t.Fatal("zero size accepted")
	}
	bad := filepath.Join(t.TempDir(), "bad.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := cache.Load(bad, 16); err == nil {
		t.Fatal("garbage parsed as a font")
	}
}

func TestCacheConcurrentLoad(t *testing.T) {
	cache := NewCache()
	path := writeTestFont(t)

	var wg sync.WaitGroup
	handles := make([]*Handle, 8)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := cache.Load(path, 20)
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			handles[i] = h
		}(i)
	}
	wg.Wait()
	for _, h := range handles[1:] {
		if h != handles[0] {
			t.Fatal("concurrent loads of one key produced distinct handles")
		}
	}
}

func TestHandleMeasure(t *testing.T) {
	cache := NewCache()
	path := writeTestFont(t)
	h, err := cache.Load(path, 24)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wWide, lineH := h.Measure("mmmm")
	wThin, _ := h.Measure("i")
	if wWide <= wThin {
		t.Fatalf("width of mmmm (%.1f) not beyond width of i (%.1f)", wWide, wThin)
	}
	if lineH <= 0 {
		t.Fatalf("line height %.1f, want positive", lineH)
	}
	big, err := cache.Load(path, 48)
	if err != nil {
		t.Fatalf("Load 48: %v", err)
	}
	wBig, _ := big.Measure("mmmm")
	if wBig <= wWide {
		t.Fatalf("48px width %.1f not beyond 24px width %.1f", wBig, wWide)
	}
}

func TestMeasurerForPropagatesErrors(t *testing.T) {
	cache := NewCache()
	measure := cache.MeasurerFor(filepath.Join(t.TempDir(), "missing.ttf"))
	if _, _, err := measure("x", 12); err == nil {
		t.Fatal("expected error from missing font")
	}
}
