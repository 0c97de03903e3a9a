package render

import (
	"image/color"

	"github.com/taigrr/polyview/pkg/math3d"
)

// Mesh is the geometry the rasterizer consumes. It is satisfied by
// *models.Polyhedron without this package importing models.
type Mesh interface {
	VertexCount() int
	FaceCount() int
	Vertex(i int) math3d.Vec3
	VertexNormal(i int) math3d.Vec3
	Face(i int) (indices []int, normal math3d.Vec3)
	BaseColor() color.RGBA
}

// BoundedMesh extends Mesh with a world-space bounding box for frustum
// culling.
type BoundedMesh interface {
	Mesh
	Bounds() (min, max math3d.Vec3)
}

// SceneState is everything needed to draw one frame.
type SceneState struct {
	Meshes     []Mesh
	Lights     []Light
	Camera     *Camera // nil selects the fixed legacy projections
	Projection ProjectionMode
	Scale      float64 // 0 picks a default for the target size
	Extent     float64 // Scene radius used for the default legacy scale
	Culling    bool
	Shading    ShadingMode
	Config     ShadingConfig
	Background Color
	ShowAxes   bool
	AxisLength float64
	ShowGrid   bool
	GridSize   float64 // Side of the XZ grid; ten cells per side
}

// Projector builds the projector for a width×height target. In camera mode
// the default scale maps NDC ±1 onto the shorter side. Without a camera it
// fits Extent onto the shorter side, or is 1 when Extent is unset.
func (s *SceneState) Projector(width, height int) *Projector {
	scale := s.Scale
	if scale <= 0 {
		switch {
		case s.Camera != nil:
			scale = float64(min(width, height)) / 2
		case s.Extent > 0:
			scale = float64(min(width, height)) / (2 * s.Extent)
		default:
			scale = 1
		}
	}
	return NewProjector(s.Camera, s.Projection, scale, width, height)
}
