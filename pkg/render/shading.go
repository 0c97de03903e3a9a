package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/polyview/pkg/math3d"
)

// ShadingMode selects how faces are filled.
type ShadingMode int

const (
	// ShadingPhong lights every pixel with the interpolated normal.
	ShadingPhong ShadingMode = iota
	// ShadingGouraud lights the vertices and interpolates their colors.
	ShadingGouraud
	// ShadingFlat lights each face once at its centroid.
	ShadingFlat
	// ShadingWireframe draws only the face edges.
	ShadingWireframe
)

var shadingNames = [...]string{"phong", "gouraud", "flat", "wireframe"}

// String returns the lowercase mode name.
func (m ShadingMode) String() string {
	if int(m) >= 0 && int(m) < len(shadingNames) {
		return shadingNames[m]
	}
	return fmt.Sprintf("ShadingMode(%d)", int(m))
}

// Next cycles to the following mode.
func (m ShadingMode) Next() ShadingMode {
	return (m + 1) % ShadingMode(len(shadingNames))
}

// ParseShadingMode parses a mode name.
func ParseShadingMode(s string) (ShadingMode, error) {
	for i, name := range shadingNames {
		if s == name {
			return ShadingMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shading mode %q", s)
}

// ShadingConfig holds the material-independent lighting parameters.
type ShadingConfig struct {
	Shininess   float64 // Specular exponent
	Attenuation float64 // k in 1/(1 + k·d) for point lights
}

// DefaultShadingConfig returns shininess 32 and attenuation 0.1.
func DefaultShadingConfig() ShadingConfig {
	return ShadingConfig{Shininess: 32, Attenuation: 0.1}
}

// rgb is a linear color with channels nominally in [0, 1].
type rgb struct{ r, g, b float64 }

func toRGB(c color.RGBA) rgb {
	return rgb{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}

func (c rgb) mul(o rgb) rgb       { return rgb{c.r * o.r, c.g * o.g, c.b * o.b} }
func (c rgb) scale(s float64) rgb { return rgb{c.r * s, c.g * s, c.b * s} }
func (c rgb) add(o rgb) rgb       { return rgb{c.r + o.r, c.g + o.g, c.b + o.b} }

func (c rgb) toRGBA(alpha uint8) color.RGBA {
	to8 := func(v float64) uint8 { return uint8(clamp01(v)*255 + 0.5) }
	return color.RGBA{to8(c.r), to8(c.g), to8(c.b), alpha}
}

// Shade evaluates Phong lighting at pos with unit normal n. viewDir points
// from the eye toward pos.
func Shade(pos, n, viewDir math3d.Vec3, base color.RGBA, lights []Light, cfg ShadingConfig) color.RGBA {
	return shade(pos, n, viewDir, toRGB(base), lights, cfg).toRGBA(base.A)
}

func shade(pos, n, viewDir math3d.Vec3, base rgb, lights []Light, cfg ShadingConfig) rgb {
	var out rgb
	for _, l := range lights {
		var (
			dir       math3d.Vec3
			lc        rgb
			intensity float64
			att       = 1.0
		)
		switch l := l.(type) {
		case AmbientLight:
			out = out.add(toRGB(l.Color).mul(base).scale(l.Intensity))
			continue
		case DirectionalLight:
			dir = l.Direction.Normalize()
			lc, intensity = toRGB(l.Color), l.Intensity
		case PointLight:
			toLight := l.Position.Sub(pos)
			dir = toLight.Normalize()
			lc, intensity = toRGB(l.Color), l.Intensity
			att = 1 / (1 + cfg.Attenuation*toLight.Len())
		default:
			continue
		}

		diff := math.Max(0, n.Dot(dir))
		out = out.add(lc.mul(base).scale(diff * intensity * att))

		hl := math.Max(0, viewDir.Dot(dir.Reflect(n)))
		if hl > 0 {
			hl = math.Pow(hl, cfg.Shininess)
			out = out.add(lc.scale(hl * intensity * att))
		}
	}
	return out
}
