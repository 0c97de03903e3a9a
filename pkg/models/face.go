package models

import "github.com/taigrr/polyview/pkg/math3d"

// degenerateArea is the squared cross-product length below which a vertex
// triple is treated as collinear.
const degenerateArea = 1e-18

// Face is a planar polygon ring referencing vertices of its Polyhedron by
// index, plus the unit normal derived from them.
type Face struct {
	Indices []int       // Indices into Polyhedron.Vertices, in ring order
	Normal  math3d.Vec3 // Unit normal, oriented outward by OrientNormal
}

// NewFace creates a face over the given vertex indices.
func NewFace(indices ...int) Face {
	return Face{Indices: append([]int(nil), indices...)}
}

// Valid reports whether the face has at least three vertices and all of its
// indices address a vertex list of length n.
func (f Face) Valid(n int) bool {
	if len(f.Indices) < 3 {
		return false
	}
	for _, idx := range f.Indices {
		if idx < 0 || idx >= n {
			return false
		}
	}
	return true
}

// Points returns the face's vertex positions. Out-of-range indices are skipped.
func (f Face) Points(vertices []math3d.Vec3) []math3d.Vec3 {
	pts := make([]math3d.Vec3, 0, len(f.Indices))
	for _, idx := range f.Indices {
		if idx >= 0 && idx < len(vertices) {
			pts = append(pts, vertices[idx])
		}
	}
	return pts
}

// Centroid returns the mean of the face's vertex positions.
func (f Face) Centroid(vertices []math3d.Vec3) math3d.Vec3 {
	return math3d.Center(f.Points(vertices))
}

// UpdateNormal recomputes the normal from (v1→v2)×(v1→v3). When those three
// vertices are collinear the remaining fan triples (v1, vi, vi+1) are tried,
// which keeps rings with repeated pole vertices shaded. Invalid faces get a
// zero normal.
func (f *Face) UpdateNormal(vertices []math3d.Vec3) {
	f.Normal = math3d.Vec3{}
	if !f.Valid(len(vertices)) {
		return
	}

	v0 := vertices[f.Indices[0]]
	for i := 1; i+1 < len(f.Indices); i++ {
		e1 := vertices[f.Indices[i]].Sub(v0)
		e2 := vertices[f.Indices[i+1]].Sub(v0)
		n := e1.Cross(e2)
		if n.LenSq() > degenerateArea {
			f.Normal = n.Normalize()
			return
		}
	}
}

// OrientNormal flips the normal if it points toward center.
func (f *Face) OrientNormal(vertices []math3d.Vec3, center math3d.Vec3) {
	if f.Normal.Dot(f.Centroid(vertices).Sub(center)) < 0 {
		f.Normal = f.Normal.Negate()
	}
}

// Clone returns a deep copy of the face.
func (f Face) Clone() Face {
	return Face{
		Indices: append([]int(nil), f.Indices...),
		Normal:  f.Normal,
	}
}
