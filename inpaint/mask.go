package inpaint

import (
	"image"

	"github.com/lifeinpassion/translator/geom"
)

const maskOn = 255

// BuildMask converts rectangular regions into a binary erasure mask matching
// bounds: zero everywhere, 255 inside each rectangle, then one dilation with
// a square element of side expand when expand > 0. Detection boxes are tight
// around glyph ink, so the dilation catches anti-aliased edges that a tight
// box would leave behind.
func BuildMask(bounds image.Rectangle, regions []geom.Rect, expand int) *image.Gray {
	mask := image.NewGray(bounds)
	limit := geom.FromImageRect(bounds)
	for _, r := range regions {
		clipped := r.Clip(limit)
		if clipped.Empty() {
			continue
		}
		for y := clipped.Y; y < clipped.Y+clipped.H; y++ {
			row := mask.PixOffset(clipped.X, y)
			for i := 0; i < clipped.W; i++ {
				mask.Pix[row+i] = maskOn
			}
		}
	}
	if expand > 1 {
		return Dilate(mask, expand)
	}
	return mask
}

// Dilate applies one morphological dilation with a k×k square structuring
// element anchored at (k/2, k/2). The result is always a superset of the
// input. k <= 1 returns the mask unchanged.
func Dilate(mask *image.Gray, k int) *image.Gray {
	if k <= 1 {
		return mask
	}
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	anchor := k / 2
	lo, hi := -anchor, k-1-anchor

	// Separable max filter: horizontal pass, then vertical.
	tmp := image.NewGray(b)
	for y := 0; y < h; y++ {
		row := y * mask.Stride
		for x := 0; x < w; x++ {
			var v uint8
			for o := lo; o <= hi; o++ {
				xx := x + o
				if xx < 0 || xx >= w {
					continue
				}
				if mask.Pix[row+xx] > v {
					v = mask.Pix[row+xx]
				}
			}
			tmp.Pix[y*tmp.Stride+x] = v
		}
	}
	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v uint8
			for o := lo; o <= hi; o++ {
				yy := y + o
				if yy < 0 || yy >= h {
					continue
				}
				if tmp.Pix[yy*tmp.Stride+x] > v {
					v = tmp.Pix[yy*tmp.Stride+x]
				}
			}
			out.Pix[y*out.Stride+x] = v
		}
	}
	return out
}
