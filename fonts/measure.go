package fonts

import (
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Measurer reports the rendered extent of text at an integer size. The
// size fitter runs against this signature alone, so it can be exercised
// with stub metrics and no font files.
type Measurer func(text string, size int) (w, h float64, err error)

// MeasurerFor binds a font path to the cache, yielding the Measurer the
// fitter consumes. Each distinct size loads through the cache once.
func (c *Cache) MeasurerFor(path string) Measurer {
	return func(text string, size int) (float64, float64, error) {
		h, err := c.Load(path, size)
		if err != nil {
			return 0, 0, err
		}
		w, ht := h.Measure(text)
		return w, ht, nil
	}
}

// Measure returns the extent of a single line of text in pixels. Arabic
// text is shaped first so contextual forms report their true advance.
func (h *Handle) Measure(text string) (float64, float64) {
	if script := Classify(text); script == ScriptArabic && h.shaped != nil {
		return h.shapedWidth(text, script), h.LineHeight()
	}
	adv := xfont.MeasureString(h.Face, text)
	return fixedToFloat(adv), h.LineHeight()
}

func (h *Handle) shapedWidth(text string, script Script) float64 {
	runes := []rune(text)
	shaper := &shaping.HarfbuzzShaper{}
	out := shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: script.Direction(),
		Face:      h.shaped,
		Size:      fixed.Int26_6(h.Size << 6),
		Script:    script.TypesettingScript(),
		Language:  language.DefaultLanguage(),
	})
	var w fixed.Int26_6
	for _, g := range out.Glyphs {
		w += g.XAdvance
	}
	return fixedToFloat(w)
}
