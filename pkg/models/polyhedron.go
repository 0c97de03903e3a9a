// Package models provides the polyhedral mesh model and its sources:
// regular solids, generated surfaces and OBJ/glTF files.
package models

import (
	"image/color"

	"github.com/taigrr/polyview/pkg/math3d"
)

// DefaultColor is the base color given to meshes that do not specify one.
var DefaultColor = color.RGBA{200, 200, 200, 255}

// Polyhedron is a mesh of planar faces over a shared vertex list.
type Polyhedron struct {
	Name          string
	Vertices      []math3d.Vec3
	Faces         []Face
	VertexNormals []math3d.Vec3 // Same length and order as Vertices
	Color         color.RGBA

	center math3d.Vec3
}

// NewPolyhedron builds a polyhedron from vertex positions and face index
// rings and computes all normals. The inputs are copied.
func NewPolyhedron(name string, vertices []math3d.Vec3, faces [][]int, c color.RGBA) *Polyhedron {
	p := &Polyhedron{
		Name:     name,
		Vertices: append([]math3d.Vec3(nil), vertices...),
		Faces:    make([]Face, len(faces)),
		Color:    c,
	}
	for i, idx := range faces {
		p.Faces[i] = NewFace(idx...)
	}
	p.RecalculateNormals()
	return p
}

// Center returns the geometric center computed by the last
// RecalculateNormals or Transform.
func (p *Polyhedron) Center() math3d.Vec3 {
	return p.center
}

// RecalculateNormals recomputes the center, every face normal (oriented away
// from the center) and the vertex normals. Call it after any topology or
// position change.
func (p *Polyhedron) RecalculateNormals() {
	p.center = math3d.Center(p.Vertices)
	for i := range p.Faces {
		p.Faces[i].UpdateNormal(p.Vertices)
		p.Faces[i].OrientNormal(p.Vertices, p.center)
	}
	p.ComputeVertexNormals()
}

// ComputeVertexNormals sets each vertex normal to the normalized sum of the
// normals of its incident faces. Face normals must already be computed.
func (p *Polyhedron) ComputeVertexNormals() {
	normals := make([]math3d.Vec3, len(p.Vertices))
	for _, f := range p.Faces {
		if !f.Valid(len(p.Vertices)) {
			continue
		}
		for _, idx := range f.Indices {
			normals[idx] = normals[idx].Add(f.Normal)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	p.VertexNormals = normals
}

// Transform returns a new polyhedron with m applied. Vertices use the full
// matrix. Face normals are recomputed from the moved vertices; vertex
// normals use only the 3x3 block and are renormalized.
func (p *Polyhedron) Transform(m math3d.Mat4) *Polyhedron {
	out := &Polyhedron{
		Name:     p.Name,
		Vertices: make([]math3d.Vec3, len(p.Vertices)),
		Faces:    make([]Face, len(p.Faces)),
		Color:    p.Color,
	}
	for i, v := range p.Vertices {
		out.Vertices[i] = v.Transform(m)
	}
	out.center = math3d.Center(out.Vertices)

	for i, f := range p.Faces {
		nf := f.Clone()
		nf.UpdateNormal(out.Vertices)
		if nf.Normal.LenSq() == 0 {
			// Collapsed faces keep their carried direction.
			nf.Normal = m.MulVec3Dir(f.Normal).Normalize()
		}
		nf.OrientNormal(out.Vertices, out.center)
		out.Faces[i] = nf
	}

	if len(p.VertexNormals) == len(p.Vertices) {
		out.VertexNormals = make([]math3d.Vec3, len(p.VertexNormals))
		for i, n := range p.VertexNormals {
			out.VertexNormals[i] = m.MulVec3Dir(n).Normalize()
		}
	} else {
		out.ComputeVertexNormals()
	}
	return out
}

// Clone creates a deep copy of the polyhedron.
func (p *Polyhedron) Clone() *Polyhedron {
	clone := &Polyhedron{
		Name:          p.Name,
		Vertices:      append([]math3d.Vec3(nil), p.Vertices...),
		Faces:         make([]Face, len(p.Faces)),
		VertexNormals: append([]math3d.Vec3(nil), p.VertexNormals...),
		Color:         p.Color,
		center:        p.center,
	}
	for i, f := range p.Faces {
		clone.Faces[i] = f.Clone()
	}
	return clone
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (p *Polyhedron) Bounds() (min, max math3d.Vec3) {
	if len(p.Vertices) == 0 {
		return math3d.Vec3{}, math3d.Vec3{}
	}
	min, max = p.Vertices[0], p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// Size returns the dimensions of the bounding box.
func (p *Polyhedron) Size() math3d.Vec3 {
	min, max := p.Bounds()
	return max.Sub(min)
}

// VertexCount returns the number of vertices.
func (p *Polyhedron) VertexCount() int {
	return len(p.Vertices)
}

// FaceCount returns the number of faces.
func (p *Polyhedron) FaceCount() int {
	return len(p.Faces)
}

// Vertex returns the position of vertex i.
func (p *Polyhedron) Vertex(i int) math3d.Vec3 {
	return p.Vertices[i]
}

// VertexNormal returns the averaged normal of vertex i, or (0, 0, 1) when i
// is out of range or no normals were computed.
func (p *Polyhedron) VertexNormal(i int) math3d.Vec3 {
	if i < 0 || i >= len(p.VertexNormals) {
		return math3d.V3(0, 0, 1)
	}
	return p.VertexNormals[i]
}

// Face returns the index ring and normal of face i.
func (p *Polyhedron) Face(i int) ([]int, math3d.Vec3) {
	f := p.Faces[i]
	return f.Indices, f.Normal
}

// BaseColor returns the mesh color.
func (p *Polyhedron) BaseColor() color.RGBA {
	return p.Color
}
