package scene

import (
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taigrr/polyview/pkg/math3d"
	"github.com/taigrr/polyview/pkg/models"
	"github.com/taigrr/polyview/pkg/render"
)

// Surface presets accepted as mesh shapes in addition to models.ShapeNames.
var surfaceNames = []string{"cone", "cylinder", "noise", "paraboloid", "sincos", "sphere"}

// ShapeNames returns every shape a MeshConfig may name, sorted.
func ShapeNames() []string {
	names := append(models.ShapeNames(), surfaceNames...)
	slices.Sort(names)
	return names
}

func isShape(name string) bool {
	return slices.Contains(ShapeNames(), name)
}

// Scene is a built, ready to draw scene. Fields may be changed between
// frames; Snapshot reads them.
type Scene struct {
	Width  int
	Height int

	Meshes     []*models.Polyhedron
	Lights     []render.Light
	Camera     *render.Camera // nil selects the fixed projections
	Projection render.ProjectionMode
	Shading    render.ShadingMode
	Culling    bool
	Shade      render.ShadingConfig
	Background render.Color
	Scale      float64

	ShowAxes   bool
	AxisLength float64
	ShowGrid   bool
	GridSize   float64

	// Pivot is the point the turntable rotates meshes about.
	Pivot math3d.Vec3
	// Radius bounds every mesh around Pivot, with a margin.
	Radius float64
}

// extentMargin leaves room around the meshes in camera-less views.
const extentMargin = 1.2

// Build validates cfg, loads or generates its meshes and creates the lights
// and camera.
func Build(cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Validate has already checked every parse below.
	shading, _ := render.ParseShadingMode(cfg.Shading)
	projection, _ := render.ParseProjectionMode(cfg.Projection)
	bg, _ := render.ParseColor(cfg.Background)

	s := &Scene{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Projection: projection,
		Shading:    shading,
		Culling:    cfg.Culling,
		Shade:      render.ShadingConfig{Shininess: cfg.Shininess, Attenuation: cfg.Attenuation},
		Background: bg,
		Scale:      cfg.Scale,
		ShowAxes:   cfg.Axes,
		AxisLength: cfg.AxisLength,
		ShowGrid:   cfg.Grid,
		GridSize:   cfg.GridSize,
	}

	for i, mc := range cfg.Meshes {
		m, err := buildMesh(mc)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		s.Meshes = append(s.Meshes, m)
	}
	for _, lc := range cfg.Lights {
		s.Lights = append(s.Lights, buildLight(lc))
	}
	if cfg.Camera != nil {
		s.Camera = buildCamera(cfg.Camera)
		if cfg.Camera.Target != nil {
			s.Pivot = vec(*cfg.Camera.Target)
		}
	}
	s.Radius = s.radius() * extentMargin
	return s, nil
}

// Snapshot returns the frame state with every mesh turned by angle radians
// about the vertical axis through Pivot. Each snapshot owns its camera, so
// snapshots may be rendered concurrently.
func (s *Scene) Snapshot(angle float64) *render.SceneState {
	meshes := make([]render.Mesh, len(s.Meshes))
	for i, m := range s.Meshes {
		if angle == 0 {
			meshes[i] = m
			continue
		}
		meshes[i] = m.RotatedAroundLine(s.Pivot, math3d.Up(), angle)
	}

	var cam *render.Camera
	if s.Camera != nil {
		c := *s.Camera
		cam = &c
	}

	return &render.SceneState{
		Meshes:     meshes,
		Lights:     s.Lights,
		Camera:     cam,
		Projection: s.Projection,
		Scale:      s.Scale,
		Culling:    s.Culling,
		Shading:    s.Shading,
		Config:     s.Shade,
		Background: s.Background,
		ShowAxes:   s.ShowAxes,
		AxisLength: s.AxisLength,
		ShowGrid:   s.ShowGrid,
		GridSize:   s.GridSize,
		Extent:     s.Radius,
	}
}

// radius returns the largest vertex distance from Pivot.
func (s *Scene) radius() float64 {
	r := 0.0
	for _, m := range s.Meshes {
		for _, v := range m.Vertices {
			r = max(r, v.Distance(s.Pivot))
		}
	}
	return r
}

// Counts returns the total vertex and face counts.
func (s *Scene) Counts() (vertices, faces int) {
	for _, m := range s.Meshes {
		vertices += m.VertexCount()
		faces += m.FaceCount()
	}
	return vertices, faces
}

func buildMesh(mc MeshConfig) (*models.Polyhedron, error) {
	var (
		p   *models.Polyhedron
		err error
	)
	if mc.File != "" {
		p, err = LoadMesh(mc.File)
		if err == nil && mc.Size > 0 {
			p = p.Normalized(mc.Size)
		}
	} else {
		p, err = generate(mc)
	}
	if err != nil {
		return nil, err
	}

	if mc.Color != "" {
		p.Color, _ = render.ParseColor(mc.Color)
	}
	if mc.Reflect != "" {
		plane, _ := math3d.ParsePlane(mc.Reflect)
		p = p.Reflected(plane)
	}
	if r := vec(mc.Rotation); r.LenSq() > 0 {
		rad := math.Pi / 180
		m := math3d.RotateZ(r.Z * rad).Mul(math3d.RotateY(r.Y * rad)).Mul(math3d.RotateX(r.X * rad))
		p = p.Transform(math3d.Translate(p.Center()).Mul(m).Mul(math3d.Translate(p.Center().Negate())))
	}
	if off := vec(mc.Position); off.LenSq() > 0 {
		p = p.Translated(off)
	}
	return p, nil
}

// LoadMesh reads an OBJ or glTF mesh, choosing the reader from the
// extension. Other extensions wrap ErrInvalid.
func LoadMesh(path string) (*models.Polyhedron, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return models.LoadOBJ(path)
	case ".glb", ".gltf":
		return models.LoadGLB(path)
	}
	return nil, fmt.Errorf("%w: unsupported mesh file %s", ErrInvalid, path)
}

// generate builds a shape or surface preset centered on the origin.
// Heightfields are turned so their height runs along +Y.
func generate(mc MeshConfig) (*models.Polyhedron, error) {
	size := mc.Size
	if size == 0 {
		size = 1
	}
	res := mc.Resolution
	if res == 0 {
		res = 16
	}
	axis := models.AxisY
	if mc.Axis != "" {
		axis, _ = models.ParseAxis(mc.Axis)
	}

	var (
		p   *models.Polyhedron
		err error
	)
	switch mc.Shape {
	case "paraboloid":
		p, err = models.Paraboloid(size, res)
	case "sincos":
		p, err = models.SinCos(size, res)
	case "noise":
		amp := mc.Amplitude
		if amp == 0 {
			amp = size / 2
		}
		p, err = models.NoiseField(size, res, amp, mc.Seed)
	case "cylinder":
		return revolve(mc.Shape, models.CylinderProfile(size, 2*size, max(res/4, 1)), axis, res)
	case "cone":
		return revolve(mc.Shape, models.ConeProfile(size, 2*size, max(res/4, 1)), axis, res)
	case "sphere":
		return revolve(mc.Shape, models.SphereProfile(size, max(res/2, 2)), axis, res)
	default:
		return models.Shape(mc.Shape, size)
	}
	if err != nil {
		return nil, err
	}
	p = p.Transform(math3d.RotateX(-math.Pi / 2))
	return p.Translated(p.Center().Negate()), nil
}

func revolve(name string, profile []math3d.Vec3, axis models.Axis, divisions int) (*models.Polyhedron, error) {
	p, err := models.Revolution(name, profile, axis, max(divisions, 3))
	if err != nil {
		return nil, err
	}
	return p.Translated(p.Center().Negate()), nil
}

func buildLight(lc LightConfig) render.Light {
	c := render.White
	if lc.Color != "" {
		c, _ = render.ParseColor(lc.Color)
	}
	switch strings.ToLower(lc.Type) {
	case "ambient":
		return render.AmbientLight{Color: c, Intensity: lc.Intensity}
	case "point":
		return render.PointLight{Position: vec(lc.Position), Color: c, Intensity: lc.Intensity}
	default:
		return render.NewDirectionalLight(vec(lc.Direction), c, lc.Intensity)
	}
}

// buildCamera uses aspect 1: the projector applies one scale to both axes.
func buildCamera(cc *CameraConfig) *render.Camera {
	cam := render.NewCamera()
	cam.SetPosition(vec(cc.Position))
	if cc.FOV > 0 {
		cam.SetFOV(cc.FOV * math.Pi / 180)
	}
	cam.SetClipPlanes(cc.clipPlanes())
	if cc.Target != nil {
		cam.LookAt(vec(*cc.Target))
	} else {
		cam.SetOrientation(cc.Yaw, cc.Pitch)
	}
	return cam
}
