package render

import (
	"github.com/taigrr/polyview/pkg/math3d"
)

// ClipPlane is the plane Normal·p + D = 0. Points with a positive signed
// distance are on the inner side.
type ClipPlane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the equation so the normal has unit length.
func (p *ClipPlane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to point.
func (p ClipPlane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six inward-facing clip planes of a view volume.
type Frustum struct {
	Planes [6]ClipPlane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts the clip planes of a view-projection matrix
// (Gribb/Hartmann). Each plane is row3 ± rowN of m.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m.Get(i, 0), m.Get(i, 1), m.Get(i, 2)), m.Get(i, 3)
	}
	w, wd := row(3)

	var f Frustum
	for axis := range 3 {
		n, d := row(axis)
		f.Planes[2*axis] = ClipPlane{Normal: w.Add(n), D: wd + d}
		f.Planes[2*axis+1] = ClipPlane{Normal: w.Sub(n), D: wd - d}
	}
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// ContainsPoint reports whether p is inside all six planes.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere is at least partly inside.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

// IntersectAABB reports whether any part of box may be visible. For each
// plane only the corner furthest along the normal is tested.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(box.corner(pl.Normal)) < 0 {
			return false
		}
	}
	return true
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the box.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// ContainsPoint reports whether p lies inside the box, bounds included.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Transform returns the box enclosing all eight corners after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	out := AABB{Min: b.Min.Transform(m)}
	out.Max = out.Min
	for i := 1; i < 8; i++ {
		c := math3d.V3(
			pick(i&1 != 0, b.Max.X, b.Min.X),
			pick(i&2 != 0, b.Max.Y, b.Min.Y),
			pick(i&4 != 0, b.Max.Z, b.Min.Z),
		).Transform(m)
		out.Min = out.Min.Min(c)
		out.Max = out.Max.Max(c)
	}
	return out
}

// corner returns the corner furthest along dir.
func (b AABB) corner(dir math3d.Vec3) math3d.Vec3 {
	return math3d.V3(
		pick(dir.X >= 0, b.Max.X, b.Min.X),
		pick(dir.Y >= 0, b.Max.Y, b.Min.Y),
		pick(dir.Z >= 0, b.Max.Z, b.Min.Z),
	)
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
