package render

import (
	"math"

	"github.com/taigrr/polyview/pkg/math3d"
)

// degenerateTriangle is the smallest |u.z| (twice the signed screen area)
// a triangle may have and still be rasterized.
const degenerateTriangle = 1e-2

// FrameStats counts the work done since the last BeginFrame.
type FrameStats struct {
	MeshesTested        int // Meshes tested against the frustum
	MeshesCulled        int // Meshes entirely outside the frustum
	FacesDrawn          int
	FacesCulled         int // Back faces removed
	FacesClipped        int // Faces with a vertex behind the near plane
	FacesInvalid        int // Fewer than 3 vertices or bad indices
	TrianglesDegenerate int // Fan triangles with near-zero screen area
	PixelsWritten       int // Depth test passes, including overdraw
}

// Rasterizer draws meshes into a Framebuffer through a depth buffer.
// Smaller depth values are nearer. A Rasterizer must only be used from one
// goroutine at a time.
type Rasterizer struct {
	fb    *Framebuffer
	depth []float64
	Stats FrameStats
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{fb: fb}
	r.Resize()
	return r
}

// Framebuffer returns the color target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// SetFramebuffer switches to a new color target and resizes the depth
// buffer to match.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
	r.Resize()
}

// Resize matches the depth buffer to the framebuffer and clears it.
func (r *Rasterizer) Resize() {
	n := r.fb.Width * r.fb.Height
	if cap(r.depth) < n {
		r.depth = make([]float64, n)
	}
	r.depth = r.depth[:n]
	r.clearDepth()
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	return r.fb.Height
}

// BeginFrame resets depth to +Inf, color to None and the frame counters.
// Subsequent draw calls accumulate.
func (r *Rasterizer) BeginFrame() {
	r.clearDepth()
	r.fb.Clear(None)
	r.Stats = FrameStats{}
}

func (r *Rasterizer) clearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.depth)
	if n == 0 {
		return
	}
	r.depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(r.depth[i:], r.depth[:i])
	}
}

// DepthAt returns the stored depth at (x, y), +Inf when nothing was drawn
// or the point is out of bounds.
func (r *Rasterizer) DepthAt(x, y int) float64 {
	if x < 0 || x >= r.fb.Width || y < 0 || y >= r.fb.Height {
		return math.Inf(1)
	}
	return r.depth[y*r.fb.Width+x]
}

// ColorAt returns the framebuffer color at (x, y).
func (r *Rasterizer) ColorAt(x, y int) Color {
	return r.fb.GetPixel(x, y)
}

// Render clears the frame and draws the whole scene. Undrawn pixels are
// finally painted with the scene background.
func (r *Rasterizer) Render(s *SceneState) {
	r.BeginFrame()
	proj := s.Projector(r.fb.Width, r.fb.Height)

	cfg := s.Config
	if cfg == (ShadingConfig{}) {
		cfg = DefaultShadingConfig()
	}

	// The grid carries no depth, so meshes drawn afterwards cover it.
	wf := NewWireframe(r.fb, proj)
	if s.ShowGrid {
		bg := s.Background
		if bg.A == 0 {
			bg = Black
		}
		wf.DrawGrid(s.GridSize, s.GridSize/10, GridColor, bg)
	}
	for _, m := range s.Meshes {
		r.DrawMesh(m, proj, s.Lights, s.Shading, cfg, s.Culling)
	}

	if s.ShowAxes {
		length := s.AxisLength
		if length <= 0 {
			length = 1
		}
		wf.DrawAxes(length)
	}
	r.fb.FillEmpty(s.Background)
}

// screenVertex is a mesh vertex after projection, with the attributes
// interpolated across triangles.
type screenVertex struct {
	x, y, depth float64
	world       math3d.Vec3
	normal      math3d.Vec3
	front       bool
	lit         rgb // Gouraud vertex color
}

// fragmentShader returns the color of a covered pixel from its barycentric
// weights over triangle (a, b, c).
type fragmentShader func(a, b, c *screenVertex, w math3d.Vec3) Color

// DrawMesh draws one mesh without clearing. cull enables back-face culling,
// which only takes effect with a camera in perspective mode.
func (r *Rasterizer) DrawMesh(mesh Mesh, proj *Projector, lights []Light, mode ShadingMode, cfg ShadingConfig, cull bool) {
	if r.frustumCull(mesh, proj) {
		return
	}

	n := mesh.VertexCount()
	verts := make([]screenVertex, n)
	for i := range n {
		p := mesh.Vertex(i)
		x, y := proj.Project(p)
		verts[i] = screenVertex{
			x:      x,
			y:      y,
			depth:  proj.Depth(p),
			world:  p,
			normal: mesh.VertexNormal(i),
			front:  proj.InFront(p),
		}
	}

	base := mesh.BaseColor()
	baseRGB := toRGB(base)
	if mode == ShadingGouraud {
		for i := range verts {
			v := &verts[i]
			v.lit = shade(v.world, v.normal, proj.ViewDir(v.world), baseRGB, lights, cfg)
		}
	}

	backFaces := cull && proj.Culls()
	for fi := range mesh.FaceCount() {
		indices, normal := mesh.Face(fi)
		if !validFace(indices, n) {
			r.Stats.FacesInvalid++
			continue
		}
		if !allInFront(indices, verts) {
			r.Stats.FacesClipped++
			continue
		}

		centroid := faceCentroid(indices, verts)
		if backFaces {
			cam, _ := proj.CameraPosition()
			if normal.Dot(centroid.Sub(cam).Normalize()) >= 0 {
				r.Stats.FacesCulled++
				continue
			}
		}
		r.Stats.FacesDrawn++

		if mode == ShadingWireframe {
			r.drawOutline(indices, verts, base)
			continue
		}

		var frag fragmentShader
		switch mode {
		case ShadingFlat:
			c := shade(centroid, normal, proj.ViewDir(centroid), baseRGB, lights, cfg).toRGBA(255)
			frag = func(_, _, _ *screenVertex, _ math3d.Vec3) Color { return c }
		case ShadingGouraud:
			frag = func(a, b, c *screenVertex, w math3d.Vec3) Color {
				return a.lit.scale(w.X).add(b.lit.scale(w.Y)).add(c.lit.scale(w.Z)).toRGBA(255)
			}
		default:
			frag = func(a, b, c *screenVertex, w math3d.Vec3) Color {
				pos := a.world.Scale(w.X).Add(b.world.Scale(w.Y)).Add(c.world.Scale(w.Z))
				nrm := a.normal.Scale(w.X).Add(b.normal.Scale(w.Y)).Add(c.normal.Scale(w.Z)).Normalize()
				if nrm.LenSq() == 0 {
					nrm = normal
				}
				return shade(pos, nrm, proj.ViewDir(pos), baseRGB, lights, cfg).toRGBA(255)
			}
		}

		// Fan triangulation around the first vertex.
		a := &verts[indices[0]]
		for i := 1; i+1 < len(indices); i++ {
			r.fillTriangle(a, &verts[indices[i]], &verts[indices[i+1]], frag)
		}
	}
}

// frustumCull reports whether a bounded mesh lies entirely outside the
// camera frustum. Meshes without bounds and legacy projections are never
// culled.
func (r *Rasterizer) frustumCull(mesh Mesh, proj *Projector) bool {
	if proj.Camera == nil {
		return false
	}
	bounded, ok := mesh.(BoundedMesh)
	if !ok {
		return false
	}

	r.Stats.MeshesTested++
	lo, hi := bounded.Bounds()
	if !proj.Camera.Frustum().IntersectAABB(NewAABB(lo, hi)) {
		r.Stats.MeshesCulled++
		return true
	}
	return false
}

// fillTriangle scans the triangle's clamped screen bounding box, sampling at
// pixel centers.
func (r *Rasterizer) fillTriangle(a, b, c *screenVertex, frag fragmentShader) {
	area := (b.x-a.x)*(c.y-a.y) - (c.x-a.x)*(b.y-a.y)
	if math.Abs(area) < degenerateTriangle {
		r.Stats.TrianglesDegenerate++
		return
	}

	minX := max(0, int(math.Floor(min(a.x, b.x, c.x))))
	maxX := min(r.fb.Width-1, int(math.Ceil(max(a.x, b.x, c.x))))
	minY := max(0, int(math.Floor(min(a.y, b.y, c.y))))
	maxY := min(r.fb.Height-1, int(math.Ceil(max(a.y, b.y, c.y))))

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		row := y * r.fb.Width
		for x := minX; x <= maxX; x++ {
			w, ok := barycentric(a.x, a.y, b.x, b.y, c.x, c.y, float64(x)+0.5, py)
			if !ok || w.X < 0 || w.Y < 0 || w.Z < 0 {
				continue
			}
			z := w.X*a.depth + w.Y*b.depth + w.Z*c.depth
			if z >= r.depth[row+x] {
				continue
			}
			r.depth[row+x] = z
			r.fb.Pixels[row+x] = frag(a, b, c, w)
			r.Stats.PixelsWritten++
		}
	}
}

// drawOutline draws the closed edge loop of a face.
func (r *Rasterizer) drawOutline(indices []int, verts []screenVertex, c Color) {
	c.A = 255
	for i, idx := range indices {
		p, q := verts[idx], verts[indices[(i+1)%len(indices)]]
		r.fb.DrawLine(round(p.x), round(p.y), round(q.x), round(q.y), c)
	}
}

// barycentric returns the weights of (px, py) with respect to triangle
// (x0,y0), (x1,y1), (x2,y2) from
//
//	u = (x1-x0, x2-x0, x0-px) × (y1-y0, y2-y0, y0-py)
//
// ok is false when |u.z| is below the degenerate threshold.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) (w math3d.Vec3, ok bool) {
	u := math3d.V3(x1-x0, x2-x0, x0-px).Cross(math3d.V3(y1-y0, y2-y0, y0-py))
	if math.Abs(u.Z) < degenerateTriangle {
		return math3d.V3(-1, 1, 1), false
	}
	return math3d.V3(1-(u.X+u.Y)/u.Z, u.X/u.Z, u.Y/u.Z), true
}

func validFace(indices []int, n int) bool {
	if len(indices) < 3 {
		return false
	}
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return false
		}
	}
	return true
}

func allInFront(indices []int, verts []screenVertex) bool {
	for _, idx := range indices {
		if !verts[idx].front {
			return false
		}
	}
	return true
}

func faceCentroid(indices []int, verts []screenVertex) math3d.Vec3 {
	var sum math3d.Vec3
	for _, idx := range indices {
		sum = sum.Add(verts[idx].world)
	}
	return sum.Scale(1 / float64(len(indices)))
}
