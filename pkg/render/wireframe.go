package render

import (
	"math"

	"github.com/taigrr/polyview/pkg/math3d"
)

// Wireframe draws 3D line segments through a Projector without depth
// testing.
type Wireframe struct {
	fb   *Framebuffer
	proj *Projector
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(fb *Framebuffer, proj *Projector) *Wireframe {
	return &Wireframe{fb: fb, proj: proj}
}

// DrawLine3D draws the segment p1-p2. With a camera, segments with an
// endpoint behind the near plane are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, c Color) {
	if !w.proj.InFront(p1) || !w.proj.InFront(p2) {
		return
	}
	x1, y1 := w.proj.Project(p1)
	x2, y2 := w.proj.Project(p2)
	w.fb.DrawLine(round(x1), round(y1), round(x2), round(y2), c)
}

// DrawMesh draws every edge of every valid face in the given color.
func (w *Wireframe) DrawMesh(mesh Mesh, c Color) {
	n := mesh.VertexCount()
	for fi := range mesh.FaceCount() {
		indices, _ := mesh.Face(fi)
		if !validFace(indices, n) {
			continue
		}
		for i, idx := range indices {
			next := indices[(i+1)%len(indices)]
			w.DrawLine3D(mesh.Vertex(idx), mesh.Vertex(next), c)
		}
	}
}

// DrawAxes draws the coordinate axes from the origin: X red, Y green, Z blue.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), Red)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), Green)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), Blue)
}

// DrawGrid draws a square grid on the XZ plane at y=0. Lines fade toward
// the background by BlendColor as they move away from the center.
func (w *Wireframe) DrawGrid(size, step float64, c, bg Color) {
	if step <= 0 || size <= 0 {
		return
	}
	half := size / 2
	for off := -half; off <= half+1e-9; off += step {
		t := math.Abs(off) / half
		lc := BlendColor(c, bg, t*0.8)
		w.DrawLine3D(math3d.V3(off, 0, -half), math3d.V3(off, 0, half), lc)
		w.DrawLine3D(math3d.V3(-half, 0, off), math3d.V3(half, 0, off), lc)
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
