package viewer

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/taigrr/polyview/pkg/math3d"
	"github.com/taigrr/polyview/pkg/render"
	"github.com/taigrr/polyview/pkg/scene"
)

// Action is an input-independent viewer command.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleSpin
	ActionToggleCulling
	ActionCycleShading
	ActionToggleProjection
	ActionOrbitLeft
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown
	ActionReset
)

// orbitStep is the camera orbit per key press, in radians.
const orbitStep = 0.08

// nudgeSpeed is the turntable impulse used when there is no camera to move.
const nudgeSpeed = 1.5

// Controls applies actions to a scene. It is shared by the window and the
// terminal loop, each of which maps its own keys.
type Controls struct {
	scene  *scene.Scene
	orbit  *Orbit
	logger *log.Logger

	// camera is kept while the fixed projection is shown.
	camera *render.Camera
	home   render.Camera
}

// NewControls remembers the scene camera as the reset position.
func NewControls(s *scene.Scene, orbit *Orbit, logger *log.Logger) *Controls {
	c := &Controls{scene: s, orbit: orbit, logger: logger}
	if s.Camera != nil {
		c.home = *s.Camera
	}
	return c
}

// Apply runs a and reports whether the viewer should quit.
func (c *Controls) Apply(a Action) bool {
	s := c.scene
	switch a {
	case ActionQuit:
		return true
	case ActionToggleSpin:
		c.orbit.Toggle()
		c.logger.Debug("spin", "on", c.orbit.Spinning())
	case ActionToggleCulling:
		s.Culling = !s.Culling
		c.logger.Debug("culling", "on", s.Culling)
	case ActionCycleShading:
		s.Shading = s.Shading.Next()
		c.logger.Debug("shading", "mode", s.Shading)
	case ActionToggleProjection:
		c.toggleProjection()
		c.logger.Debug("projection", "mode", s.Projection, "camera", s.Camera != nil)
	case ActionOrbitLeft:
		c.orbitCamera(-orbitStep, 0)
	case ActionOrbitRight:
		c.orbitCamera(orbitStep, 0)
	case ActionOrbitUp:
		c.orbitCamera(0, orbitStep)
	case ActionOrbitDown:
		c.orbitCamera(0, -orbitStep)
	case ActionReset:
		c.orbit.Reset()
		if s.Camera != nil {
			*s.Camera = c.home
		}
	}
	return false
}

// toggleProjection switches between the camera and the fixed axonometric
// view. Scenes without a camera alternate the two fixed projections.
func (c *Controls) toggleProjection() {
	s := c.scene
	switch {
	case s.Camera != nil:
		c.camera, s.Camera = s.Camera, nil
		s.Projection = render.ProjectionAxonometric
	case c.camera != nil:
		s.Camera, c.camera = c.camera, nil
		s.Projection = render.ProjectionPerspective
	case s.Projection == render.ProjectionAxonometric:
		s.Projection = render.ProjectionPerspective
	default:
		s.Projection = render.ProjectionAxonometric
	}
}

// orbitCamera swings the camera around the scene pivot, keeping it aimed at
// the pivot. Without a camera, horizontal moves nudge the turntable.
func (c *Controls) orbitCamera(yaw, pitch float64) {
	s := c.scene
	cam := s.Camera
	if cam == nil {
		c.orbit.Nudge(yaw / orbitStep * nudgeSpeed)
		return
	}

	pos := cam.Position
	if yaw != 0 {
		pos = pos.Transform(math3d.RotateAroundAxis(s.Pivot, math3d.Up(), yaw))
	}
	if pitch != 0 {
		next := pos.Transform(math3d.RotateAroundAxis(s.Pivot, cam.Right, pitch))
		// Stay clear of the poles, where LookAt loses its up vector.
		dir := s.Pivot.Sub(next).Normalize()
		if math.Abs(dir.Y) < 0.98 {
			pos = next
		}
	}
	cam.SetPosition(pos)
	cam.LookAt(s.Pivot)
}
