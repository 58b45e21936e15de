// Package geom holds the small amount of plane geometry the pipeline needs:
// detection polygons, axis-aligned pixel rectangles, and the derivation of
// one from the other.
package geom

import (
	"image"
	"math"
)

// Point is a position in image space. Detection engines report fractional
// coordinates, so both axes are float64.
type Point struct {
	X, Y float64
}

// Polygon is the 4 ordered corner points a detector returns for one text
// instance. The points may describe a rotated quadrilateral.
type Polygon [4]Point

// Rect is an axis-aligned pixel rectangle with origin at the top-left.
type Rect struct {
	X, Y, W, H int
}

// BBox derives the axis-aligned bounding rectangle of the polygon by
// coordinate min/max. Rotation is discarded.
func (p Polygon) BBox() Rect {
	minX, maxX := p[0].X, p[0].X
	minY, maxY := p[0].Y, p[0].Y
	for _, pt := range p[1:] {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	x, y := int(minX), int(minY)
	return Rect{X: x, Y: y, W: int(maxX) - x, H: int(maxY) - y}
}

// Tilt reports the angle, in radians, of the polygon's top edge against the
// horizontal axis, normalized to (-pi/2, pi/2]. Zero for axis-aligned text.
func (p Polygon) Tilt() float64 {
	a := math.Atan2(p[1].Y-p[0].Y, p[1].X-p[0].X)
	for a > math.Pi/2 {
		a -= math.Pi
	}
	for a <= -math.Pi/2 {
		a += math.Pi
	}
	return a
}

// AxisAligned reports whether the polygon's tilt is within tol radians of
// horizontal.
func (p Polygon) AxisAligned(tol float64) bool {
	return math.Abs(p.Tilt()) <= tol
}

// RectPolygon builds the degenerate polygon of an axis-aligned rectangle,
// ordered clockwise from the top-left corner.
func RectPolygon(r Rect) Polygon {
	x0, y0 := float64(r.X), float64(r.Y)
	x1, y1 := float64(r.X+r.W), float64(r.Y+r.H)
	return Polygon{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Clip intersects the rectangle with bounds. The result is empty when the
// two do not overlap.
func (r Rect) Clip(bounds Rect) Rect {
	x0 := max(r.X, bounds.X)
	y0 := max(r.Y, bounds.Y)
	x1 := min(r.X+r.W, bounds.X+bounds.W)
	y1 := min(r.Y+r.H, bounds.Y+bounds.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Expand grows the rectangle by k pixels on every side.
func (r Rect) Expand(k int) Rect {
	return Rect{X: r.X - k, Y: r.Y - k, W: r.W + 2*k, H: r.H + 2*k}
}

// ImageRect converts to the stdlib image rectangle representation.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// FromImageRect converts from the stdlib representation.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}
