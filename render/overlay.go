package render

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lifeinpassion/translator/geom"
	"github.com/lifeinpassion/translator/raster"
)

// Detection overlays are stroked in pure green so they stand out on
// photographic backgrounds.
var overlayColor = colorful.Color{R: 0, G: 1, B: 0}

const overlayLineWidth = 2

// Overlay returns a copy of img with a rectangle stroked around every
// box. The input image is not modified.
func Overlay(img *image.RGBA, boxes []geom.Rect) *image.RGBA {
	out := raster.Clone(img)
	if len(boxes) == 0 {
		return out
	}
	dc := gg.NewContextForRGBA(out)
	dc.SetColor(overlayColor)
	dc.SetLineWidth(overlayLineWidth)
	for _, b := range boxes {
		dc.DrawRectangle(float64(b.X), float64(b.Y), float64(b.W), float64(b.H))
		dc.Stroke()
	}
	return out
}
