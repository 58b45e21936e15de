package fonts

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	gofont "github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Handle is one font file loaded at one pixel size. A given (path, size)
// always yields the same metrics, so handles are created once and reused.
// Measuring or drawing with the same handle from two goroutines at once is
// the caller's problem; the usual arrangement gives each worker its own
// image and keeps a handle busy on one image at a time.
type Handle struct {
	Path string
	Size int
	Face xfont.Face

	shaped  *gofont.Face
	ascent  float64
	descent float64
}

// Ascent is the baseline offset from the top of the line, in pixels.
func (h *Handle) Ascent() float64 { return h.ascent }

// LineHeight is the vertical extent of one rendered line, in pixels.
func (h *Handle) LineHeight() float64 { return h.ascent + h.descent }

// Cache loads and memoizes font handles keyed by (path, size). It is safe
// for concurrent use: repeat lookups take only the read lock, first loads
// take the write lock.
type Cache struct {
	mu      sync.RWMutex
	files   map[string]*fontFile
	handles map[handleKey]*Handle
}

type handleKey struct {
	path string
	size int
}

type fontFile struct {
	ttf    *truetype.Font
	shaped *gofont.Face
}

// NewCache returns an empty handle cache.
func NewCache() *Cache {
	return &Cache{
		files:   make(map[string]*fontFile),
		handles: make(map[handleKey]*Handle),
	}
}

// Load returns the handle for path at size, reading and parsing the file on
// first use.
func (c *Cache) Load(path string, size int) (*Handle, error) {
	if size <= 0 {
		return nil, fmt.Errorf("fonts: size must be positive, got %d", size)
	}
	key := handleKey{path: path, size: size}
	c.mu.RLock()
	h := c.handles[key]
	c.mu.RUnlock()
	if h != nil {
		return h, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if h := c.handles[key]; h != nil {
		return h, nil
	}
	file, err := c.fileLocked(path)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(file.ttf, &truetype.Options{Size: float64(size), DPI: 72})
	m := face.Metrics()
	h = &Handle{
		Path:    path,
		Size:    size,
		Face:    face,
		shaped:  file.shaped,
		ascent:  fixedToFloat(m.Ascent),
		descent: fixedToFloat(m.Descent),
	}
	c.handles[key] = h
	return h, nil
}

func (c *Cache) fileLocked(path string) (*fontFile, error) {
	if f := c.files[path]; f != nil {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	// The shaping face is best effort: when the shaper cannot read the
	// file, measurement falls back to plain advances.
	shaped, _ := gofont.ParseTTF(bytes.NewReader(data))
	f := &fontFile{ttf: ttf, shaped: shaped}
	c.files[path] = f
	return f, nil
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
