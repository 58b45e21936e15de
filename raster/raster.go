// Package raster loads and saves the images the pipeline works on. Decoded
// images are normalized to *image.RGBA so every later stage sees one pixel
// layout.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	_ "image/gif"
	_ "golang.org/x/image/webp"
)

// LoadError reports an unreadable or undecodable input image.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load image %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Decode reads one image from r and normalizes it to RGBA.
func Decode(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return ToRGBA(img), nil
}

// Load reads and decodes the image at path. The returned bytes are the raw
// file contents, suitable for handing to a detection engine without a second
// read.
func Load(path string) (*image.RGBA, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &LoadError{Path: path, Err: err}
	}
	return img, data, nil
}

// Save encodes img to path, choosing the format from the extension.
// Supported: .png (default), .jpg/.jpeg, .bmp, .tif/.tiff.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", "":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, nil)
	default:
		err = fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	return nil
}

// ToRGBA converts any image to RGBA, copying pixels even when the input is
// already RGBA so callers never alias the source.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Clone returns a deep copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(img.Rect)
	copy(dst.Pix, img.Pix)
	return dst
}
