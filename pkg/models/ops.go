package models

import "github.com/taigrr/polyview/pkg/math3d"

// Translated returns a copy moved by offset.
func (p *Polyhedron) Translated(offset math3d.Vec3) *Polyhedron {
	return p.Transform(math3d.Translate(offset))
}

// ScaledAround returns a copy scaled by factors about pivot.
func (p *Polyhedron) ScaledAround(pivot, factors math3d.Vec3) *Polyhedron {
	m := math3d.Translate(pivot).
		Mul(math3d.Scale(factors)).
		Mul(math3d.Translate(pivot.Negate()))
	return p.Transform(m)
}

// Scaled returns a copy scaled by factors about its own center.
func (p *Polyhedron) Scaled(factors math3d.Vec3) *Polyhedron {
	return p.ScaledAround(p.center, factors)
}

// RotatedAroundCenter returns a copy rotated by angle radians about the line
// through the polyhedron's center with the given direction.
func (p *Polyhedron) RotatedAroundCenter(axis math3d.Vec3, angle float64) *Polyhedron {
	return p.Transform(math3d.RotateAroundAxis(p.center, axis, angle))
}

// RotatedAroundLine returns a copy rotated by angle radians about the line
// through point with direction axis.
func (p *Polyhedron) RotatedAroundLine(point, axis math3d.Vec3, angle float64) *Polyhedron {
	return p.Transform(math3d.RotateAroundAxis(point, axis, angle))
}

// Reflected returns a copy mirrored across a coordinate plane.
func (p *Polyhedron) Reflected(plane math3d.Plane) *Polyhedron {
	return p.Transform(math3d.Reflect(plane))
}

// Normalized returns a copy centered on the origin whose largest bounding
// box dimension equals size. Empty or flat-to-a-point meshes are returned
// centered but unscaled.
func (p *Polyhedron) Normalized(size float64) *Polyhedron {
	out := p.Translated(p.center.Negate())
	ext := out.Size()
	largest := max(ext.X, ext.Y, ext.Z)
	if largest < math3d.Epsilon {
		return out
	}
	k := size / largest
	return out.Transform(math3d.ScaleUniform(k))
}
