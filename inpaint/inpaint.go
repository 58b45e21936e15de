// Package inpaint erases detected text by reconstructing the pixels under a
// binary mask from their surroundings. Two reconstruction methods are
// provided: a fast-marching fill (telea) and a fluid-dynamics-style
// diffusion (ns).
package inpaint

import (
	"fmt"
	"image"

	"github.com/lifeinpassion/translator/geom"
	"github.com/lifeinpassion/translator/observability"
)

// Method names accepted by New.
const (
	MethodTelea = "telea"
	MethodNS    = "ns"
)

// Error reports a failed reconstruction.
type Error struct {
	Method string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("inpaint (%s): %v", e.Method, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Inpainter reconstructs masked regions of an image. The method is fixed at
// construction; an unrecognized method is rejected there, never at call
// time.
type Inpainter struct {
	method string
	radius int
	expand int
	log    observability.Logger
}

// Option configures an Inpainter.
type Option func(*Inpainter)

// WithLogger attaches a logger.
func WithLogger(log observability.Logger) Option {
	return func(p *Inpainter) {
		if log != nil {
			p.log = log
		}
	}
}

// New constructs an Inpainter. method selects the reconstruction algorithm,
// radius bounds the neighborhood it samples, and expand is the mask
// dilation element size.
func New(method string, radius, expand int, opts ...Option) (*Inpainter, error) {
	switch method {
	case MethodTelea, MethodNS:
	default:
		return nil, fmt.Errorf("inpaint: unknown method %q (want %s or %s)", method, MethodTelea, MethodNS)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("inpaint: radius must be positive, got %d", radius)
	}
	if expand < 0 {
		return nil, fmt.Errorf("inpaint: expand must not be negative, got %d", expand)
	}
	p := &Inpainter{method: method, radius: radius, expand: expand, log: observability.NopLogger{}}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Method returns the configured reconstruction method.
func (p *Inpainter) Method() string { return p.method }

// RemoveText erases the given rectangles from img and returns the
// reconstructed copy. With no regions the input image is returned unchanged,
// so images without detections never pay reconstruction cost.
func (p *Inpainter) RemoveText(img *image.RGBA, regions []geom.Rect) (*image.RGBA, error) {
	if len(regions) == 0 {
		return img, nil
	}
	mask := BuildMask(img.Bounds(), regions, p.expand)
	out, err := p.Inpaint(img, mask)
	if err != nil {
		return nil, err
	}
	p.log.Debug("text removed",
		observability.String("method", p.method),
		observability.Int("regions", len(regions)))
	return out, nil
}

// Inpaint reconstructs the pixels selected by mask. The input image is
// never mutated; the result is a fresh copy.
func (p *Inpainter) Inpaint(img *image.RGBA, mask *image.Gray) (*image.RGBA, error) {
	if img.Bounds().Dx() != mask.Bounds().Dx() || img.Bounds().Dy() != mask.Bounds().Dy() {
		return nil, &Error{Method: p.method, Err: fmt.Errorf("mask size %v does not match image %v", mask.Bounds().Size(), img.Bounds().Size())}
	}
	dst := image.NewRGBA(img.Rect)
	copy(dst.Pix, img.Pix)

	switch p.method {
	case MethodTelea:
		inpaintTelea(dst, mask, p.radius)
	case MethodNS:
		inpaintNS(dst, mask, p.radius)
	}
	return dst, nil
}
