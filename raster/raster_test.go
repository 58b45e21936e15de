package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func fixtureImage(t *testing.T, w, h int) *image.RGBA {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	return img
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.png")
	src := fixtureImage(t, 40, 30)

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	img, data, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(data, buf.Bytes()) {
		t.Fatalf("raw bytes must match the file contents")
	}
	if img.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), src.Bounds())
	}
	if !bytes.Equal(img.Pix, src.Pix) {
		t.Fatalf("decoded pixels differ from source")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatalf("missing file must error")
	}
	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("want LoadError, got %T: %v", err, err)
	}
}

func TestLoadUndecodable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatalf("undecodable file must error")
	}
}

func TestSaveByExtension(t *testing.T) {
	dir := t.TempDir()
	src := fixtureImage(t, 16, 16)
	for _, name := range []string{"out.png", "out.jpg", "out.bmp", "out.tiff"} {
		path := filepath.Join(dir, name)
		if err := Save(path, src); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		img, _, err := Load(path)
		if err != nil {
			t.Fatalf("reload %s: %v", name, err)
		}
		if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
			t.Fatalf("%s: bounds = %v", name, img.Bounds())
		}
	}
}

func TestSaveUnsupportedExtension(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "out.xyz"), fixtureImage(t, 4, 4)); err == nil {
		t.Fatalf("unknown extension must error")
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	src := fixtureImage(t, 8, 8)
	dst := Clone(src)
	dst.Set(0, 0, color.RGBA{255, 0, 0, 255})
	if src.RGBAAt(0, 0) == dst.RGBAAt(0, 0) {
		t.Fatalf("mutating the clone must not touch the source")
	}
}

func TestToRGBACopies(t *testing.T) {
	src := fixtureImage(t, 8, 8)
	dst := ToRGBA(src)
	dst.Set(1, 1, color.RGBA{0, 255, 0, 255})
	if src.RGBAAt(1, 1) == dst.RGBAAt(1, 1) {
		t.Fatalf("ToRGBA must copy pixels for RGBA input too")
	}
}
