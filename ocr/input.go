package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/lifeinpassion/translator/geom"
)

// InputOption mutates a detection input before it is handed to an engine.
type InputOption func(*Input)

// WithLanguages sets language hints on the input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion restricts detection to the given rectangle.
func WithRegion(region geom.Rect) InputOption {
	return func(in *Input) {
		if region.Empty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI overrides the DPI value on the input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// NewInput builds a detection input from already-encoded image bytes.
func NewInput(id string, data []byte, format ImageFormat, opts ...InputOption) Input {
	in := Input{ID: id, Image: data, Format: format}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// InputFromImage encodes a decoded image as PNG and wraps it as an input.
func InputFromImage(id string, img image.Image, opts ...InputOption) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Input{}, fmt.Errorf("encode image %s: %w", id, err)
	}
	return NewInput(id, buf.Bytes(), ImageFormatPNG, opts...), nil
}
