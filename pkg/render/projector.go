package render

import (
	"fmt"

	"github.com/taigrr/polyview/pkg/math3d"
)

// ProjectionMode selects how world points reach the screen.
type ProjectionMode int

const (
	// ProjectionAxonometric is a parallel oblique view.
	ProjectionAxonometric ProjectionMode = iota
	// ProjectionPerspective uses the camera frustum, or a fixed viewing
	// distance when no camera is set.
	ProjectionPerspective
)

// String returns the lowercase mode name.
func (m ProjectionMode) String() string {
	switch m {
	case ProjectionAxonometric:
		return "axonometric"
	case ProjectionPerspective:
		return "perspective"
	}
	return fmt.Sprintf("ProjectionMode(%d)", int(m))
}

// ParseProjectionMode parses "axonometric" or "perspective".
func ParseProjectionMode(s string) (ProjectionMode, error) {
	switch s {
	case "axonometric", "axo", "parallel":
		return ProjectionAxonometric, nil
	case "perspective", "persp":
		return ProjectionPerspective, nil
	}
	return 0, fmt.Errorf("unknown projection %q", s)
}

// Projector maps world points to framebuffer coordinates and depth.
//
// With a Camera the view-projection matrix is used and Scale is the number
// of pixels per NDC unit. Without one, points are scaled by Scale and sent
// through the fixed axonometric or distance-perspective matrix.
type Projector struct {
	Camera *Camera
	Mode   ProjectionMode
	Scale  float64
	Width  int
	Height int

	AxonometricAngle float64
	Foreshorten      float64
	Distance         float64

	legacy math3d.Mat4
}

// NewProjector creates a projector for a width×height target with the
// default legacy parameters. Pass a nil camera for legacy mode.
func NewProjector(cam *Camera, mode ProjectionMode, scale float64, width, height int) *Projector {
	p := &Projector{
		Camera:           cam,
		Mode:             mode,
		Scale:            scale,
		Width:            width,
		Height:           height,
		AxonometricAngle: math3d.DefaultAxonometricAngle,
		Foreshorten:      math3d.DefaultForeshorten,
		Distance:         math3d.DefaultPerspectiveDist,
	}
	p.Refresh()
	return p
}

// Refresh rebuilds the legacy matrix after its parameters change.
func (p *Projector) Refresh() {
	if p.Mode == ProjectionPerspective {
		p.legacy = math3d.PerspectiveDistance(p.Distance)
	} else {
		p.legacy = math3d.Axonometric(p.AxonometricAngle, p.Foreshorten)
	}
}

// Project returns the screen position of world point w. Screen Y grows
// downward.
func (p *Projector) Project(w math3d.Vec3) (x, y float64) {
	cx, cy := float64(p.Width)/2, float64(p.Height)/2
	if p.Camera != nil {
		clip := p.Camera.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(w, 1))
		ndc := clip.PerspectiveDivide()
		return cx + ndc.X*p.Scale, cy - ndc.Y*p.Scale
	}
	s := w.Scale(p.Scale).Transform(p.legacy)
	return cx + s.X, cy - s.Y
}

// Depth returns the depth of w; nearer points have smaller values.
func (p *Projector) Depth(w math3d.Vec3) float64 {
	if p.Camera != nil {
		return p.Camera.ViewDepth(w)
	}
	return -w.Z
}

// InFront reports whether w lies beyond the camera's near plane. It is
// always true without a camera.
func (p *Projector) InFront(w math3d.Vec3) bool {
	if p.Camera == nil {
		return true
	}
	return p.Camera.ViewDepth(w) > p.Camera.Near
}

// CameraPosition returns the camera position and whether a camera is set.
func (p *Projector) CameraPosition() (math3d.Vec3, bool) {
	if p.Camera == nil {
		return math3d.Vec3{}, false
	}
	return p.Camera.Position, true
}

// ViewDir returns the unit direction from the eye to worldPos. Without a
// camera the viewer looks down -Z.
func (p *Projector) ViewDir(worldPos math3d.Vec3) math3d.Vec3 {
	if p.Camera == nil {
		return math3d.V3(0, 0, -1)
	}
	return worldPos.Sub(p.Camera.Position).Normalize()
}

// Culls reports whether back-face culling applies: only with a camera in
// perspective mode.
func (p *Projector) Culls() bool {
	return p.Camera != nil && p.Mode == ProjectionPerspective
}
