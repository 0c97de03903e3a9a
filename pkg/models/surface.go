package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/taigrr/polyview/pkg/math3d"
)

// ErrInvalidSurface is wrapped by surface constructors when their
// parameters cannot produce a mesh.
var ErrInvalidSurface = errors.New("invalid surface parameters")

// HeightFunc maps a grid point to its height.
type HeightFunc func(x, y float64) float64

// Heightfield samples f on an (nx+1)×(ny+1) grid over [x0,x1]×[y0,y1] and
// joins neighbouring samples with quads. Vertex (i, j) has index i*(ny+1)+j
// and position (x, y, f(x, y)).
func Heightfield(name string, f HeightFunc, x0, x1, y0, y1 float64, nx, ny int) (*Polyhedron, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("heightfield %dx%d: %w", nx, ny, ErrInvalidSurface)
	}
	if !(x1 > x0) || !(y1 > y0) {
		return nil, fmt.Errorf("heightfield range [%g,%g]x[%g,%g]: %w", x0, x1, y0, y1, ErrInvalidSurface)
	}

	dx := (x1 - x0) / float64(nx)
	dy := (y1 - y0) / float64(ny)
	verts := make([]math3d.Vec3, 0, (nx+1)*(ny+1))
	for i := 0; i <= nx; i++ {
		x := x0 + float64(i)*dx
		for j := 0; j <= ny; j++ {
			y := y0 + float64(j)*dy
			verts = append(verts, math3d.V3(x, y, f(x, y)))
		}
	}

	idx := func(i, j int) int { return i*(ny+1) + j }
	faces := make([][]int, 0, nx*ny)
	for i := range nx {
		for j := range ny {
			faces = append(faces, []int{idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)})
		}
	}
	return NewPolyhedron(name, verts, faces, DefaultColor), nil
}

// Paraboloid returns z = x² + y² over [-r,r]² with n divisions per side.
func Paraboloid(r float64, n int) (*Polyhedron, error) {
	return Heightfield("paraboloid", func(x, y float64) float64 {
		return x*x + y*y
	}, -r, r, -r, r, n, n)
}

// SinCos returns z = sin(x)·cos(y) over [-r,r]² with n divisions per side.
func SinCos(r float64, n int) (*Polyhedron, error) {
	return Heightfield("sincos", func(x, y float64) float64 {
		return math.Sin(x) * math.Cos(y)
	}, -r, r, -r, r, n, n)
}

// NoiseField returns Perlin terrain over [-r,r]² with n divisions per side.
// The same seed always produces the same surface.
func NoiseField(r float64, n int, amplitude float64, seed int64) (*Polyhedron, error) {
	p := perlin.NewPerlin(2, 2, 3, seed)
	return Heightfield("noise", func(x, y float64) float64 {
		return amplitude * p.Noise2D(x/r, y/r)
	}, -r, r, -r, r, n, n)
}

// Axis selects a coordinate axis for surfaces of revolution.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the lowercase axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "unknown"
}

// ParseAxis parses "x", "y" or "z".
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return AxisX, true
	case "y", "Y":
		return AxisY, true
	case "z", "Z":
		return AxisZ, true
	}
	return 0, false
}

func (a Axis) rotation(angle float64) math3d.Mat4 {
	switch a {
	case AxisX:
		return math3d.RotateX(angle)
	case AxisZ:
		return math3d.RotateZ(angle)
	default:
		return math3d.RotateY(angle)
	}
}

// Revolution sweeps the profile around axis in divisions equal steps. Ring
// k is the profile rotated by 2πk/divisions; consecutive rings, including
// the last and the first, are joined with quads.
func Revolution(name string, profile []math3d.Vec3, axis Axis, divisions int) (*Polyhedron, error) {
	if len(profile) < 2 {
		return nil, fmt.Errorf("revolution profile has %d points: %w", len(profile), ErrInvalidSurface)
	}
	if divisions < 3 {
		return nil, fmt.Errorf("revolution with %d divisions: %w", divisions, ErrInvalidSurface)
	}

	n := len(profile)
	verts := make([]math3d.Vec3, 0, n*divisions)
	for k := range divisions {
		m := axis.rotation(2 * math.Pi * float64(k) / float64(divisions))
		for _, p := range profile {
			verts = append(verts, p.Transform(m))
		}
	}

	faces := make([][]int, 0, (n-1)*divisions)
	for k := range divisions {
		cur := k * n
		next := ((k + 1) % divisions) * n
		for j := range n - 1 {
			faces = append(faces, []int{cur + j, cur + j + 1, next + j + 1, next + j})
		}
	}
	return NewPolyhedron(name, verts, faces, DefaultColor), nil
}

// CylinderProfile returns points+1 points of a vertical line at distance
// radius from the Y axis, from y=0 to y=height.
func CylinderProfile(radius, height float64, points int) []math3d.Vec3 {
	out := make([]math3d.Vec3, 0, points+1)
	for i := 0; i <= points; i++ {
		t := float64(i) / float64(max(points, 1))
		out = append(out, math3d.V3(radius, t*height, 0))
	}
	return out
}

// ConeProfile returns points+1 points running from (radius, 0) at the base
// to the apex at (0, height).
func ConeProfile(radius, height float64, points int) []math3d.Vec3 {
	out := make([]math3d.Vec3, 0, points+1)
	for i := 0; i <= points; i++ {
		t := float64(i) / float64(max(points, 1))
		out = append(out, math3d.V3(radius*(1-t), t*height, 0))
	}
	return out
}

// SphereProfile returns points+1 points of a half meridian of a sphere of
// the given radius, from the north pole to the south pole.
func SphereProfile(radius float64, points int) []math3d.Vec3 {
	out := make([]math3d.Vec3, 0, points+1)
	for i := 0; i <= points; i++ {
		theta := math.Pi * float64(i) / float64(max(points, 1))
		out = append(out, math3d.V3(radius*math.Sin(theta), radius*math.Cos(theta), 0))
	}
	return out
}
