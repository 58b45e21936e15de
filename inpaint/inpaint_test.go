package inpaint

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/lifeinpassion/translator/geom"
)

func uniformRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.RGBA, r geom.Rect, c color.RGBA) {
	draw.Draw(img, image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H), image.NewUniform(c), image.Point{}, draw.Src)
}

func maxChannelDiff(a, b color.RGBA) int {
	diff := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	m := diff(a.R, b.R)
	if d := diff(a.G, b.G); d > m {
		m = d
	}
	if d := diff(a.B, b.B); d > m {
		m = d
	}
	return m
}

func TestNewRejectsUnknownMethod(t *testing.T) {
	for _, method := range []string{"", "patchmatch", "TELEA"} {
		if _, err := New(method, 5, 2); err == nil {
			t.Errorf("New(%q) succeeded, want error", method)
		}
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	if _, err := New(MethodTelea, 0, 2); err == nil {
		t.Error("zero radius accepted")
	}
	if _, err := New(MethodTelea, 5, -1); err == nil {
		t.Error("negative expand accepted")
	}
}

func TestRemoveTextNoRegions(t *testing.T) {
	p, err := New(MethodTelea, 5, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img := uniformRGBA(20, 10, color.RGBA{100, 120, 140, 255})
	before := append([]byte(nil), img.Pix...)

	out, err := p.RemoveText(img, nil)
	if err != nil {
		t.Fatalf("RemoveText: %v", err)
	}
	if out != img {
		t.Fatal("expected the input image back when there is nothing to remove")
	}
	if !bytes.Equal(out.Pix, before) {
		t.Fatal("pixels changed on a no-op removal")
	}
}

func TestInpaintSizeMismatch(t *testing.T) {
	p, err := New(MethodNS, 5, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img := uniformRGBA(20, 10, color.RGBA{0, 0, 0, 255})
	mask := image.NewGray(image.Rect(0, 0, 10, 10))
	if _, err := p.Inpaint(img, mask); err == nil {
		t.Fatal("mismatched mask accepted")
	}
}

func TestRemoveTextFillsRegion(t *testing.T) {
	bg := color.RGBA{200, 180, 160, 255}
	ink := color.RGBA{10, 10, 10, 255}
	patch := geom.Rect{X: 15, Y: 10, W: 10, H: 8}

	for _, method := range []string{MethodTelea, MethodNS} {
		t.Run(method, func(t *testing.T) {
			img := uniformRGBA(40, 30, bg)
			fillRect(img, patch, ink)
			before := append([]byte(nil), img.Pix...)

			p, err := New(method, 5, 2)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			out, err := p.RemoveText(img, []geom.Rect{patch})
			if err != nil {
				t.Fatalf("RemoveText: %v", err)
			}
			if !bytes.Equal(img.Pix, before) {
				t.Fatal("input image was mutated")
			}
			for y := patch.Y; y < patch.Y+patch.H; y++ {
				for x := patch.X; x < patch.X+patch.W; x++ {
					got := out.RGBAAt(x, y)
					if d := maxChannelDiff(got, bg); d > 12 {
						t.Fatalf("pixel (%d,%d) = %v, off background by %d", x, y, got, d)
					}
				}
			}
			// Pixels clear of the dilated mask must come through untouched.
			margin := patch.Expand(3)
			for y := 0; y < 30; y++ {
				for x := 0; x < 40; x++ {
					if margin.Contains(x, y) {
						continue
					}
					if got, want := out.RGBAAt(x, y), img.RGBAAt(x, y); got != want {
						t.Fatalf("pixel (%d,%d) outside mask changed: %v -> %v", x, y, want, got)
					}
				}
			}
		})
	}
}

func TestInpaintGradientStaysSmooth(t *testing.T) {
	// A horizontal ramp with a hole punched in the middle: the
	// reconstruction should land between the flanking values rather than
	// flatline at either side.
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			v := uint8(40 + 5*x)
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	hole := geom.Rect{X: 18, Y: 8, W: 4, H: 4}
	fillRect(img, hole, color.RGBA{255, 0, 0, 255})

	p, err := New(MethodTelea, 5, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := p.RemoveText(img, []geom.Rect{hole})
	if err != nil {
		t.Fatalf("RemoveText: %v", err)
	}
	left := int(out.RGBAAt(hole.X-2, 10).R)
	right := int(out.RGBAAt(hole.X+hole.W+1, 10).R)
	for x := hole.X; x < hole.X+hole.W; x++ {
		got := int(out.RGBAAt(x, 10).R)
		if got < left-15 || got > right+15 {
			t.Fatalf("reconstructed value %d at x=%d escapes flanking range [%d,%d]", got, x, left, right)
		}
	}
}
