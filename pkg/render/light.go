package render

import (
	"image/color"

	"github.com/taigrr/polyview/pkg/math3d"
)

// Light is one of AmbientLight, DirectionalLight or PointLight.
type Light interface {
	isLight()
}

// AmbientLight adds a constant term to every surface.
type AmbientLight struct {
	Color     color.RGBA
	Intensity float64
}

// DirectionalLight is infinitely far away. Direction points from the scene
// toward the light.
type DirectionalLight struct {
	Direction math3d.Vec3
	Color     color.RGBA
	Intensity float64
}

// PointLight radiates from Position with distance attenuation.
type PointLight struct {
	Position  math3d.Vec3
	Color     color.RGBA
	Intensity float64
}

func (AmbientLight) isLight()     {}
func (DirectionalLight) isLight() {}
func (PointLight) isLight()       {}

// NewDirectionalLight creates a directional light with a normalized
// direction.
func NewDirectionalLight(dir math3d.Vec3, c color.RGBA, intensity float64) DirectionalLight {
	return DirectionalLight{Direction: dir.Normalize(), Color: c, Intensity: intensity}
}

// DefaultLights returns a dim white ambient light plus a white key light
// from the upper right front.
func DefaultLights() []Light {
	return []Light{
		AmbientLight{Color: White, Intensity: 0.2},
		NewDirectionalLight(math3d.V3(1, 1, 1), White, 0.8),
	}
}
