package models

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/taigrr/polyview/pkg/math3d"
)

// ErrUnknownShape is returned by Shape for names it does not recognize.
var ErrUnknownShape = errors.New("unknown shape")

var shapeBuilders = map[string]func(size float64) *Polyhedron{
	"tetrahedron": Tetrahedron,
	"hexahedron":  Hexahedron,
	"cube":        Hexahedron,
	"octahedron":  Octahedron,
}

// ShapeNames returns the names accepted by Shape, sorted.
func ShapeNames() []string {
	names := make([]string, 0, len(shapeBuilders))
	for name := range shapeBuilders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Shape builds a regular solid by name with the given edge scale.
func Shape(name string, size float64) (*Polyhedron, error) {
	build, ok := shapeBuilders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	return build(size), nil
}

// Tetrahedron returns a regular tetrahedron with edge length size, centered
// on the origin.
func Tetrahedron(size float64) *Polyhedron {
	verts := []math3d.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0.5, Y: math.Sqrt(3) / 2, Z: 0},
		{X: 0.5, Y: math.Sqrt(3) / 6, Z: math.Sqrt(6) / 3},
	}
	faces := [][]int{
		{0, 1, 2},
		{0, 1, 3},
		{0, 2, 3},
		{1, 2, 3},
	}
	return centered("tetrahedron", verts, faces, size)
}

// Hexahedron returns an axis-aligned cube with edge length size, centered on
// the origin.
func Hexahedron(size float64) *Polyhedron {
	verts := make([]math3d.Vec3, 0, 8)
	for i := range 2 {
		for j := range 2 {
			for k := range 2 {
				// index = i*4 + j*2 + k
				verts = append(verts, math3d.V3(float64(i), float64(j), float64(k)))
			}
		}
	}
	faces := [][]int{
		{0, 1, 3, 2},
		{4, 5, 7, 6},
		{0, 1, 5, 4},
		{2, 3, 7, 6},
		{0, 2, 6, 4},
		{1, 3, 7, 5},
	}
	return centered("hexahedron", verts, faces, size)
}

// Octahedron returns a regular octahedron whose vertices lie at distance
// size/√2 from the origin, giving edge length size.
func Octahedron(size float64) *Polyhedron {
	verts := []math3d.Vec3{
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: -1},
	}
	faces := [][]int{
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 4},
		{0, 4, 1},
		{5, 2, 1},
		{5, 3, 2},
		{5, 4, 3},
		{5, 1, 4},
	}
	return centered("octahedron", verts, faces, size/math.Sqrt2)
}

// centered scales unit-sized geometry by size and moves its vertex mean to
// the origin.
func centered(name string, verts []math3d.Vec3, faces [][]int, size float64) *Polyhedron {
	c := math3d.Center(verts)
	out := make([]math3d.Vec3, len(verts))
	for i, v := range verts {
		out[i] = v.Sub(c).Scale(size)
	}
	return NewPolyhedron(name, out, faces, DefaultColor)
}
