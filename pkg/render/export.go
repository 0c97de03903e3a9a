package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for output paths with an unknown
// extension.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ImageFormats lists the extensions SaveImage understands.
var ImageFormats = []string{".png", ".webp", ".tga"}

// EncodeImage writes img to w in the format named by ext.
func EncodeImage(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".webp":
		return nativewebp.Encode(w, img, nil)
	case ".tga":
		return tga.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// SaveImage writes img to path, choosing the encoder from the extension.
func SaveImage(path string, img image.Image) error {
	ext := filepath.Ext(path)
	if !isFormat(ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeImage(f, img, ext); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// SavePNG writes the framebuffer to a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return SaveImage(path, fb.ToImage())
}

// SaveAnimatedWebP writes frames as a looping animated WebP, showing each
// frame for delayMs milliseconds.
func SaveAnimatedWebP(path string, frames []image.Image, delayMs uint) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}
	anim := &nativewebp.Animation{
		Images:    frames,
		Durations: make([]uint, len(frames)),
		Disposals: make([]uint, len(frames)),
	}
	for i := range frames {
		anim.Durations[i] = delayMs
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.EncodeAll(f, anim, nil); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Upscale enlarges img by an integer factor with nearest-neighbor sampling
// so pixels stay crisp.
func Upscale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	factor = max(factor, 1)
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Fit resamples img to exactly width×height with Catmull-Rom filtering.
func Fit(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func isFormat(ext string) bool {
	ext = strings.ToLower(ext)
	for _, f := range ImageFormats {
		if f == ext {
			return true
		}
	}
	return false
}
