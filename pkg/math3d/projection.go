package math3d

import "math"

// Defaults for the fixed projections used when no camera is active.
const (
	DefaultAxonometricAngle = math.Pi / 6
	DefaultForeshorten      = 0.5
	DefaultPerspectiveDist  = 500.0
)

// Plane names a coordinate plane for reflections.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

// String returns the lowercase plane name.
func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "xy"
	case PlaneXZ:
		return "xz"
	case PlaneYZ:
		return "yz"
	}
	return "unknown"
}

// ParsePlane parses "xy", "xz" or "yz".
func ParsePlane(s string) (Plane, bool) {
	switch s {
	case "xy", "XY":
		return PlaneXY, true
	case "xz", "XZ":
		return PlaneXZ, true
	case "yz", "YZ":
		return PlaneYZ, true
	}
	return 0, false
}

// Reflect creates a mirror matrix across the given coordinate plane.
func Reflect(p Plane) Mat4 {
	switch p {
	case PlaneXY:
		return Scale(V3(1, 1, -1))
	case PlaneXZ:
		return Scale(V3(1, -1, 1))
	case PlaneYZ:
		return Scale(V3(-1, 1, 1))
	}
	return Identity()
}

// Axonometric creates the fixed parallel projection used without a camera.
// Row-wise it is:
//
//	| cosA    0  sinA    0 |
//	| sinA*k  1  -cosA*k 0 |
//	| 0       0  0       0 |
//	| 0       0  0       1 |
//
// where k is the vertical foreshortening factor.
func Axonometric(angle, foreshorten float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	var m Mat4
	m.Set(0, 0, c)
	m.Set(0, 2, s)
	m.Set(1, 0, s*foreshorten)
	m.Set(1, 1, 1)
	m.Set(1, 2, -c*foreshorten)
	m.Set(3, 3, 1)
	return m
}

// PerspectiveDistance creates the single-point perspective used without a
// camera: the identity with -1/d in row 3, column 2, so w = 1 - z/d.
func PerspectiveDistance(d float64) Mat4 {
	m := Identity()
	if d != 0 {
		m.Set(3, 2, -1/d)
	}
	return m
}

// RotateAroundAxis creates a rotation by angle around the line through point
// with direction axis. It aligns the axis with +Z using a rotation about X
// followed by one about Y, rotates about Z and undoes both alignments and
// the translation:
//
//	T⁻¹ · Rx⁻¹ · Ry⁻¹ · Rz · Ry · Rx · T
//
// A zero axis yields the identity.
func RotateAroundAxis(point, axis Vec3, angle float64) Mat4 {
	v := axis.Normalize()
	if v.LenSq() == 0 {
		return Identity()
	}
	l, m, n := v.X, v.Y, v.Z

	// Rx carries the axis into the XZ plane; skip it when it is already there.
	rx, rxInv := Identity(), Identity()
	r := math.Sqrt(m*m + n*n)
	if r > 1e-6 {
		alpha := math.Atan2(m, n)
		rx, rxInv = RotateX(alpha), RotateX(-alpha)
	}

	// Ry carries (l, 0, r) onto +Z.
	beta := math.Atan2(-l, r)
	ry, ryInv := RotateY(beta), RotateY(-beta)

	t := Translate(point.Negate())
	tInv := Translate(point)

	return tInv.Mul(rxInv).Mul(ryInv).Mul(RotateZ(angle)).Mul(ry).Mul(rx).Mul(t)
}
