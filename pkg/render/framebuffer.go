// Package render rasterizes polyhedral meshes into a software framebuffer
// with a depth buffer, Phong lighting and back-face culling.
package render

import (
	"image"
	"image/color"
	"slices"
)

// Framebuffer is a row-major RGBA pixel grid. A pixel with alpha 0 has not
// been drawn.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA
}

// NewFramebuffer creates a cleared framebuffer. For terminal output the
// height should be twice the number of rows (two pixels per half-block).
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for filled := 1; filled < len(fb.Pixels); filled *= 2 {
		copy(fb.Pixels[filled:], fb.Pixels[:filled])
	}
}

// FillEmpty paints bg into every pixel that was not drawn this frame.
func (fb *Framebuffer) FillEmpty(bg color.RGBA) {
	for i, p := range fb.Pixels {
		if p.A == 0 {
			fb.Pixels[i] = bg
		}
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or None when out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return None
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DistinctColors returns the drawn colors in first-seen order.
func (fb *Framebuffer) DistinctColors() []color.RGBA {
	seen := make(map[color.RGBA]struct{})
	var out []color.RGBA
	for _, p := range fb.Pixels {
		if p.A == 0 {
			continue
		}
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// Count returns how many pixels equal c.
func (fb *Framebuffer) Count(c color.RGBA) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (fb *Framebuffer) Clone() *Framebuffer {
	return &Framebuffer{Width: fb.Width, Height: fb.Height, Pixels: slices.Clone(fb.Pixels)}
}

// ToImage converts the framebuffer to an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		off := i * 4
		img.Pix[off] = p.R
		img.Pix[off+1] = p.G
		img.Pix[off+2] = p.B
		img.Pix[off+3] = p.A
	}
	return img
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
