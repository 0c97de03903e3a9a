package render

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

func testImage() *image.RGBA {
	fb := NewFramebuffer(8, 6)
	fb.Clear(RGB(20, 40, 60))
	fb.DrawLine(0, 0, 7, 5, RGB(250, 200, 10))
	return fb.ToImage()
}

func sameOpaquePixels(t *testing.T, want *image.RGBA, got image.Image) {
	t.Helper()
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), want.Bounds())
	}
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r1, g1, b1, a1 := want.At(x, y).RGBA()
			r2, g2, b2, a2 := got.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got.At(x, y), want.At(x, y))
			}
		}
	}
}

func TestSaveImageFormats(t *testing.T) {
	img := testImage()
	decoders := map[string]func(*os.File) (image.Image, error){
		".png":  func(f *os.File) (image.Image, error) { return png.Decode(f) },
		".webp": func(f *os.File) (image.Image, error) { return nativewebp.Decode(f) },
		".tga":  func(f *os.File) (image.Image, error) { return tga.Decode(f) },
	}

	for ext, decode := range decoders {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "frame"+ext)
			if err := SaveImage(path, img); err != nil {
				t.Fatalf("SaveImage: %v", err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			got, err := decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			sameOpaquePixels(t, img, got)
		})
	}
}

func TestSaveImageUnsupported(t *testing.T) {
	err := SaveImage(filepath.Join(t.TempDir(), "frame.bmp"), testImage())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
	if err := EncodeImage(&bytes.Buffer{}, testImage(), ".gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("EncodeImage err = %v", err)
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(Green)
	path := filepath.Join(t.TempDir(), "fb.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	sameOpaquePixels(t, fb.ToImage(), got)
}

func TestSaveAnimatedWebP(t *testing.T) {
	frames := []image.Image{testImage(), testImage(), testImage()}
	path := filepath.Join(t.TempDir(), "spin.webp")
	if err := SaveAnimatedWebP(path, frames, 40); err != nil {
		t.Fatalf("SaveAnimatedWebP: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Contains(data, []byte("ANIM")) {
		t.Error("output is not an animated WebP container")
	}

	if err := SaveAnimatedWebP(path, nil, 40); err == nil {
		t.Error("expected error for zero frames")
	}
}

func TestUpscaleAndFit(t *testing.T) {
	img := testImage()

	up := Upscale(img, 3)
	if up.Bounds().Dx() != 24 || up.Bounds().Dy() != 18 {
		t.Fatalf("Upscale bounds = %v", up.Bounds())
	}
	for _, p := range [][2]int{{0, 0}, {1, 2}, {2, 2}} {
		if up.RGBAAt(p[0], p[1]) != img.RGBAAt(0, 0) {
			t.Errorf("upscaled pixel %v does not repeat the source pixel", p)
		}
	}
	if Upscale(img, 0).Bounds() != img.Bounds() {
		t.Error("factor below 1 should keep the size")
	}

	fit := Fit(img, 5, 5)
	if fit.Bounds().Dx() != 5 || fit.Bounds().Dy() != 5 {
		t.Errorf("Fit bounds = %v", fit.Bounds())
	}
}
