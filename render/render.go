// Package render draws translated strings back into the regions the
// original text was erased from.
//
// Rendering is best effort. A region that cannot be drawn, whether
// from a missing font file, an unparseable face, or a degenerate box,
// is logged and the caller gets the input image back unmodified for
// that call. A render fault never aborts the surrounding pipeline.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/lifeinpassion/translator/config"
	"github.com/lifeinpassion/translator/fonts"
	"github.com/lifeinpassion/translator/geom"
	"github.com/lifeinpassion/translator/observability"
	"github.com/lifeinpassion/translator/raster"
)

// fixedSizeCap bounds the font size when auto scaling is off. The box
// height wins when it is smaller.
const fixedSizeCap = 32

// Renderer draws fitted text into axis-aligned boxes using fonts
// resolved for the requested style and the target language's glyph
// variant.
type Renderer struct {
	resolver    *fonts.Resolver
	cache       *fonts.Cache
	variant     fonts.Variant
	autoScale   bool
	lineSpacing float64
	log         observability.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger routes render diagnostics to log.
func WithLogger(log observability.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithVariant selects the Han glyph variant used when the text
// contains Han codepoints. The zero value keeps the resolver default.
func WithVariant(v fonts.Variant) Option {
	return func(r *Renderer) { r.variant = v }
}

// New builds a Renderer over resolver and cache with the knobs from
// cfg.
func New(resolver *fonts.Resolver, cache *fonts.Cache, cfg config.Rendering, opts ...Option) *Renderer {
	r := &Renderer{
		resolver:    resolver,
		cache:       cache,
		autoScale:   cfg.AutoScale,
		lineSpacing: cfg.LineSpacing,
		log:         observability.NopLogger{},
	}
	if r.lineSpacing <= 0 {
		r.lineSpacing = 1
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderText draws text centered in box and returns a new image with
// the text in place. Blank text is a no-op and returns the input
// directly. On any failure the input image is returned unmodified
// together with the cause, so callers can count fallbacks without
// aborting.
//
// A nil col draws black. An empty style means modern.
func (r *Renderer) RenderText(img *image.RGBA, text string, box geom.Rect, col color.Color, style string) (*image.RGBA, error) {
	if strings.TrimSpace(text) == "" {
		return img, nil
	}
	if style == "" {
		style = fonts.StyleModern
	}
	if col == nil {
		col = color.Black
	}
	if box.Empty() {
		return r.fail(img, fmt.Errorf("degenerate box %dx%d", box.W, box.H))
	}

	variant := fonts.VariantDefault
	if fonts.ContainsHan(text) {
		variant = r.variant
	}
	path := r.resolver.Resolve(style, variant)
	if path == "" {
		return r.fail(img, fmt.Errorf("no font available for style %q", style))
	}

	lines := strings.Split(text, "\n")
	size := r.pickSize(path, text, box)
	h, err := r.cache.Load(path, size)
	if err != nil {
		return r.fail(img, err)
	}

	out := raster.Clone(img)
	dc := gg.NewContextForRGBA(out)
	dc.SetFontFace(h.Face)
	dc.SetColor(col)

	_, blockH := blockExtent(h, lines, r.lineSpacing)
	y0 := float64(box.Y) + math.Floor((float64(box.H)-blockH)/2)
	advance := h.LineHeight() * r.lineSpacing
	for i, line := range lines {
		lw, _ := h.Measure(line)
		x := float64(box.X) + math.Floor((float64(box.W)-lw)/2)
		dc.DrawString(line, x, y0+h.Ascent()+float64(i)*advance)
	}

	r.log.Debug("rendered text",
		observability.String("font", filepath.Base(path)),
		observability.Int("size", size),
		observability.Int("lines", len(lines)))
	return out, nil
}

// pickSize chooses the font size for text in box: a binary-search fit
// when auto scaling is on, otherwise the box height capped at
// fixedSizeCap.
func (r *Renderer) pickSize(path, text string, box geom.Rect) int {
	if !r.autoScale {
		if box.H < fixedSizeCap {
			return box.H
		}
		return fixedSizeCap
	}
	return fonts.Fit(r.blockMeasurer(path), text, float64(box.W), float64(box.H), fonts.MinFitSize, fonts.MaxFitSize)
}

// blockMeasurer measures multi-line text as a centered block: the
// widest line by the spaced height of all lines.
func (r *Renderer) blockMeasurer(path string) fonts.Measurer {
	return func(text string, size int) (float64, float64, error) {
		h, err := r.cache.Load(path, size)
		if err != nil {
			return 0, 0, err
		}
		w, bh := blockExtent(h, strings.Split(text, "\n"), r.lineSpacing)
		return w, bh, nil
	}
}

func blockExtent(h *fonts.Handle, lines []string, spacing float64) (float64, float64) {
	var w float64
	for _, line := range lines {
		lw, _ := h.Measure(line)
		w = math.Max(w, lw)
	}
	lh := h.LineHeight()
	return w, lh + lh*spacing*float64(len(lines)-1)
}

func (r *Renderer) fail(img *image.RGBA, err error) (*image.RGBA, error) {
	r.log.Error("render text failed", observability.Error("error", err))
	return img, err
}
