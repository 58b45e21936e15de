package inpaint

import (
	"container/heap"
	"image"
	"math"
)

// Pixel states for the fast marching method.
const (
	stateKnown uint8 = iota
	stateBand
	stateInside
)

const farTime = 1e6

type bandPoint struct {
	t    float64
	x, y int
}

type bandHeap []bandPoint

func (h bandHeap) Len() int            { return len(h) }
func (h bandHeap) Less(i, j int) bool  { return h[i].t < h[j].t }
func (h bandHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *bandHeap) Push(x interface{}) { *h = append(*h, x.(bandPoint)) }
func (h *bandHeap) Pop() interface{} {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// teleaState carries the marching grids. Coordinates are zero-based offsets
// into the image bounds.
type teleaState struct {
	w, h   int
	flags  []uint8
	times  []float64
	img    *image.RGBA
	radius int
}

// inpaintTelea reconstructs masked pixels with the fast marching method:
// pixels are filled in order of distance from the mask boundary, each as a
// weighted average of nearby already-known pixels, weighted by direction,
// distance, and level-set closeness. dst is mutated in place.
func inpaintTelea(dst *image.RGBA, mask *image.Gray, radius int) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	st := &teleaState{
		w:      w,
		h:      h,
		flags:  make([]uint8, w*h),
		times:  make([]float64, w*h),
		img:    dst,
		radius: radius,
	}

	band := &bandHeap{}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}
			st.flags[i] = stateInside
			st.times[i] = farTime
		}
	}
	// The initial band is the set of masked pixels touching a known one.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if st.flags[i] != stateInside {
				continue
			}
			if st.hasKnownNeighbor(x, y) {
				st.flags[i] = stateBand
				st.times[i] = 0
				heap.Push(band, bandPoint{t: 0, x: x, y: y})
			}
		}
	}

	for band.Len() > 0 {
		p := heap.Pop(band).(bandPoint)
		i := p.y*st.w + p.x
		if st.flags[i] == stateKnown {
			continue
		}
		st.inpaintPixel(p.x, p.y)
		st.flags[i] = stateKnown

		for _, n := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
			nx, ny := p.x+n[0], p.y+n[1]
			if nx < 0 || nx >= st.w || ny < 0 || ny >= st.h {
				continue
			}
			ni := ny*st.w + nx
			if st.flags[ni] != stateInside {
				continue
			}
			t := math.Min(
				math.Min(st.solve(nx-1, ny, nx, ny-1), st.solve(nx+1, ny, nx, ny-1)),
				math.Min(st.solve(nx-1, ny, nx, ny+1), st.solve(nx+1, ny, nx, ny+1)),
			)
			st.times[ni] = t
			st.flags[ni] = stateBand
			heap.Push(band, bandPoint{t: t, x: nx, y: ny})
		}
	}
}

func (st *teleaState) hasKnownNeighbor(x, y int) bool {
	for _, n := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
		nx, ny := x+n[0], y+n[1]
		if nx < 0 || nx >= st.w || ny < 0 || ny >= st.h {
			continue
		}
		if st.flags[ny*st.w+nx] == stateKnown {
			return true
		}
	}
	return false
}

// solve computes the eikonal update from the pair of neighbors (x1,y1) and
// (x2,y2), following the upwind discretization of |∇T| = 1.
func (st *teleaState) solve(x1, y1, x2, y2 int) float64 {
	k1 := st.known(x1, y1)
	k2 := st.known(x2, y2)
	switch {
	case k1 && k2:
		t1 := st.times[y1*st.w+x1]
		t2 := st.times[y2*st.w+x2]
		d := 2 - (t1-t2)*(t1-t2)
		if d > 0 {
			r := math.Sqrt(d)
			s := (t1 + t2 - r) / 2
			if s >= t1 && s >= t2 {
				return s
			}
			s += r
			if s >= t1 && s >= t2 {
				return s
			}
		}
		return farTime
	case k1:
		return 1 + st.times[y1*st.w+x1]
	case k2:
		return 1 + st.times[y2*st.w+x2]
	}
	return farTime
}

func (st *teleaState) known(x, y int) bool {
	if x < 0 || x >= st.w || y < 0 || y >= st.h {
		return false
	}
	return st.flags[y*st.w+x] == stateKnown
}

// inpaintPixel fills (x, y) as the normalized weighted sum of usable pixels
// within the sampling radius. The weight favors pixels in the marching
// direction (dir), close by (dst), and on a near level set (lev).
func (st *teleaState) inpaintPixel(x, y int) {
	gx, gy := st.timeGradient(x, y)
	i := y*st.w + x
	tc := st.times[i]

	var wSum, rSum, gSum, bSum float64
	for dy := -st.radius; dy <= st.radius; dy++ {
		for dx := -st.radius; dx <= st.radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= st.w || ny < 0 || ny >= st.h {
				continue
			}
			ni := ny*st.w + nx
			if st.flags[ni] != stateKnown {
				continue
			}
			lenSq := float64(dx*dx + dy*dy)
			if lenSq > float64(st.radius*st.radius) {
				continue
			}
			length := math.Sqrt(lenSq)

			dir := (float64(dx)*gx + float64(dy)*gy) / length
			if math.Abs(dir) < 1e-6 {
				dir = 1e-6
			}
			dst := 1 / (lenSq * length)
			lev := 1 / (1 + math.Abs(st.times[ni]-tc))
			weight := math.Abs(dir * dst * lev)

			off := pixOffset(st.img, nx, ny)
			rSum += weight * float64(st.img.Pix[off])
			gSum += weight * float64(st.img.Pix[off+1])
			bSum += weight * float64(st.img.Pix[off+2])
			wSum += weight
		}
	}
	if wSum == 0 {
		return
	}
	off := pixOffset(st.img, x, y)
	st.img.Pix[off] = clampByte(rSum / wSum)
	st.img.Pix[off+1] = clampByte(gSum / wSum)
	st.img.Pix[off+2] = clampByte(bSum / wSum)
	st.img.Pix[off+3] = 0xff
}

// timeGradient estimates ∇T at (x, y) with central differences, falling back
// to one-sided differences at the mask interior.
func (st *teleaState) timeGradient(x, y int) (float64, float64) {
	i := y*st.w + x
	tc := st.times[i]

	grad := func(prevOK, nextOK bool, prev, next float64) float64 {
		switch {
		case prevOK && nextOK:
			return (next - prev) / 2
		case nextOK:
			return next - tc
		case prevOK:
			return tc - prev
		}
		return 0
	}

	prevXOK := x > 0 && st.flags[i-1] != stateInside
	nextXOK := x < st.w-1 && st.flags[i+1] != stateInside
	prevYOK := y > 0 && st.flags[i-st.w] != stateInside
	nextYOK := y < st.h-1 && st.flags[i+st.w] != stateInside

	var prevX, nextX, prevY, nextY float64
	if prevXOK {
		prevX = st.times[i-1]
	}
	if nextXOK {
		nextX = st.times[i+1]
	}
	if prevYOK {
		prevY = st.times[i-st.w]
	}
	if nextYOK {
		nextY = st.times[i+st.w]
	}
	return grad(prevXOK, nextXOK, prevX, nextX), grad(prevYOK, nextYOK, prevY, nextY)
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
