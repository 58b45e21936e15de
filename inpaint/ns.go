package inpaint

import (
	"image"
	"math"
)

// inpaintNS reconstructs masked pixels in the spirit of the fluid-dynamics
// formulation: intensity is transported along isophotes until a steady state
// is reached. The implementation seeds the hole by onion peel from the
// boundary, then relaxes it with diffusion iterations whose neighbor weights
// suppress flow across strong image edges, which is the steady-state
// behavior the Navier-Stokes formulation converges to. radius bounds the
// seeding neighborhood. dst is mutated in place.
func inpaintNS(dst *image.RGBA, mask *image.Gray, radius int) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()

	inside := make([]bool, w*h)
	var hole []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.Pix[y*mask.Stride+x] != 0 {
				inside[y*w+x] = true
				hole = append(hole, y*w+x)
			}
		}
	}
	if len(hole) == 0 {
		return
	}

	seedHole(dst, inside, w, h, radius)
	relax(dst, inside, hole, w, h)
}

// seedHole fills masked pixels layer by layer from the boundary inward, each
// pixel taking the average of valued pixels within the sampling radius.
func seedHole(img *image.RGBA, inside []bool, w, h, radius int) {
	if radius < 1 {
		radius = 1
	}
	valued := make([]bool, len(inside))
	for i := range inside {
		valued[i] = !inside[i]
	}

	frontier := nextBoundary(inside, valued, w, h)
	for len(frontier) > 0 {
		for _, i := range frontier {
			x, y := i%w, i/w
			var rSum, gSum, bSum, n float64
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					ni := ny*w + nx
					if !valued[ni] {
						continue
					}
					off := pixOffset(img, nx, ny)
					rSum += float64(img.Pix[off])
					gSum += float64(img.Pix[off+1])
					bSum += float64(img.Pix[off+2])
					n++
				}
			}
			if n > 0 {
				off := pixOffset(img, x, y)
				img.Pix[off] = clampByte(rSum / n)
				img.Pix[off+1] = clampByte(gSum / n)
				img.Pix[off+2] = clampByte(bSum / n)
				img.Pix[off+3] = 0xff
			}
		}
		for _, i := range frontier {
			valued[i] = true
		}
		frontier = nextBoundary(inside, valued, w, h)
	}
}

// nextBoundary returns unvalued hole pixels that touch a valued pixel.
func nextBoundary(inside, valued []bool, w, h int) []int {
	var out []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !inside[i] || valued[i] {
				continue
			}
			for _, n := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				nx, ny := x+n[0], y+n[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if valued[ny*w+nx] {
					out = append(out, i)
					break
				}
			}
		}
	}
	return out
}

const (
	nsMaxIterations = 300
	nsConvergence   = 0.1
)

// relax runs edge-aware diffusion over the hole until the largest per-pixel
// change drops below the convergence threshold.
func relax(img *image.RGBA, inside []bool, hole []int, w, h int) {
	lum := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := pixOffset(img, x, y)
			lum[y*w+x] = 0.299*float64(img.Pix[off]) + 0.587*float64(img.Pix[off+1]) + 0.114*float64(img.Pix[off+2])
		}
	}

	for iter := 0; iter < nsMaxIterations; iter++ {
		var maxDelta float64
		for _, i := range hole {
			x, y := i%w, i/w
			var rSum, gSum, bSum, wSum float64
			here := lum[i]
			for _, n := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				nx, ny := x+n[0], y+n[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				// Weight decays across luminance edges so transported
				// intensity follows isophotes instead of crossing them.
				weight := 1 / (1 + math.Abs(lum[ni]-here)/16)
				off := pixOffset(img, nx, ny)
				rSum += weight * float64(img.Pix[off])
				gSum += weight * float64(img.Pix[off+1])
				bSum += weight * float64(img.Pix[off+2])
				wSum += weight
			}
			if wSum == 0 {
				continue
			}
			off := pixOffset(img, x, y)
			nr := rSum / wSum
			ng := gSum / wSum
			nb := bSum / wSum
			delta := math.Abs(nr-float64(img.Pix[off])) +
				math.Abs(ng-float64(img.Pix[off+1])) +
				math.Abs(nb-float64(img.Pix[off+2]))
			if delta > maxDelta {
				maxDelta = delta
			}
			img.Pix[off] = clampByte(nr)
			img.Pix[off+1] = clampByte(ng)
			img.Pix[off+2] = clampByte(nb)
			img.Pix[off+3] = 0xff
			lum[i] = 0.299*nr + 0.587*ng + 0.114*nb
		}
		if maxDelta < nsConvergence {
			break
		}
	}
}

func pixOffset(img *image.RGBA, x, y int) int {
	return img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
}
