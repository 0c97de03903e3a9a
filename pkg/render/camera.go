package render

import (
	"math"

	"github.com/taigrr/polyview/pkg/math3d"
)

// MaxPitch is the pitch limit in degrees. Looking straight up or down would
// make the right vector degenerate.
const MaxPitch = 89.0

// Camera is a free-look perspective camera steered by yaw and pitch.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation in degrees. Yaw is measured from +X toward +Z, so the
	// default -90 looks down -Z.
	Yaw   float64
	Pitch float64

	// Derived unit basis, refreshed whenever the orientation changes.
	Direction math3d.Vec3
	Right     math3d.Vec3
	Up        math3d.Vec3

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// NewCamera creates a camera at (0, 0, 5) looking toward the origin.
func NewCamera() *Camera {
	c := &Camera{
		Position:    math3d.V3(0, 0, 5),
		Yaw:         -90,
		Pitch:       0,
		FOV:         math.Pi / 3, // 60 degrees
		AspectRatio: 1,
		Near:        0.1,
		Far:         1000,
	}
	c.updateBasis()
	c.projDirty = true
	return c
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.markViewDirty()
}

// SetOrientation sets yaw and pitch in degrees. Pitch is clamped to
// ±MaxPitch.
func (c *Camera) SetOrientation(yaw, pitch float64) {
	c.Yaw = yaw
	c.Pitch = pitch
	c.updateBasis()
}

// Rotate adds to yaw and pitch (degrees).
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	c.SetOrientation(c.Yaw+deltaYaw, c.Pitch+deltaPitch)
}

// LookAt turns the camera toward target without moving it.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir.LenSq() == 0 {
		return
	}
	pitch := math.Asin(math.Max(-1, math.Min(1, dir.Y))) * 180 / math.Pi
	yaw := math.Atan2(dir.Z, dir.X) * 180 / math.Pi
	c.SetOrientation(yaw, pitch)
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.markProjDirty()
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.markProjDirty()
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.markProjDirty()
}

// MoveForward moves the camera along its view direction.
func (c *Camera) MoveForward(distance float64) {
	c.SetPosition(c.Position.Add(c.Direction.Scale(distance)))
}

// MoveRight moves the camera along its right vector.
func (c *Camera) MoveRight(distance float64) {
	c.SetPosition(c.Position.Add(c.Right.Scale(distance)))
}

// MoveUp moves the camera along its up vector.
func (c *Camera) MoveUp(distance float64) {
	c.SetPosition(c.Position.Add(c.Up.Scale(distance)))
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty || c.viewDirty || c.projDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// ViewDepth returns the distance of p in front of the camera plane
// (-Z in view space). Points behind the camera are negative.
func (c *Camera) ViewDepth(p math3d.Vec3) float64 {
	return -p.Transform(c.ViewMatrix()).Z
}

// Frustum returns the current view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

func (c *Camera) updateBasis() {
	c.Pitch = math.Max(-MaxPitch, math.Min(MaxPitch, c.Pitch))

	yaw := c.Yaw * math.Pi / 180
	pitch := c.Pitch * math.Pi / 180
	c.Direction = math3d.V3(
		math.Cos(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		math.Sin(yaw)*math.Cos(pitch),
	).Normalize()
	c.Right = c.Direction.Cross(math3d.Up()).Normalize()
	c.Up = c.Right.Cross(c.Direction).Normalize()
	c.markViewDirty()
}

func (c *Camera) computeViewMatrix() {
	r, u, d, p := c.Right, c.Up, c.Direction, c.Position
	c.viewMatrix = math3d.Mat4{
		r.X, u.X, -d.X, 0,
		r.Y, u.Y, -d.Y, 0,
		r.Z, u.Z, -d.Z, 0,
		-r.Dot(p), -u.Dot(p), d.Dot(p), 1,
	}
}

func (c *Camera) markViewDirty() {
	c.viewDirty = true
	c.viewProjDirty = true
}

func (c *Camera) markProjDirty() {
	c.projDirty = true
	c.viewProjDirty = true
}
