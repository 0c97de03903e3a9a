package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/polyview/pkg/math3d"
	"github.com/taigrr/polyview/pkg/models"
	"github.com/taigrr/polyview/pkg/render"
)

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	s, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build(Default()) = %v", err)
	}
	if s.Camera == nil || s.Projection != render.ProjectionPerspective || !s.Culling {
		t.Errorf("default scene should use a culling perspective camera: %+v", s)
	}
	if v, f := s.Counts(); v != 8 || f != 6 {
		t.Errorf("Counts = %d, %d, want 8, 6", v, f)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeScene(t, `{
		"width": 200,
		"shading": "flat",
		"meshes": [{"shape": "octahedron", "size": 3, "color": "#ff0000"}]
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != Default().Height {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Shading != "flat" {
		t.Errorf("shading = %q", cfg.Shading)
	}
	if len(cfg.Meshes) != 1 || cfg.Meshes[0].Shape != "octahedron" {
		t.Errorf("meshes = %+v, want the file's octahedron only", cfg.Meshes)
	}
	if len(cfg.Lights) != len(Default().Lights) {
		t.Errorf("lights = %d, want defaults", len(cfg.Lights))
	}
	if cfg.Camera == nil {
		t.Error("camera default lost")
	}
}

func TestLoadReplacesDefaultEntries(t *testing.T) {
	obj := filepath.Join(t.TempDir(), "model.obj")
	if err := models.SaveOBJ(obj, models.Tetrahedron(1)); err != nil {
		t.Fatal(err)
	}

	t.Run("file mesh", func(t *testing.T) {
		cfg, err := Load(writeScene(t, `{"meshes": [{"file": "`+filepath.ToSlash(obj)+`"}]}`))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if m := cfg.Meshes[0]; m.Shape != "" || m.File == "" {
			t.Errorf("mesh = %+v, want the file mesh alone", m)
		}
		s, err := Build(cfg)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if got := s.Meshes[0].FaceCount(); got != 4 {
			t.Errorf("faces = %d, want 4", got)
		}
	})

	t.Run("shape without size or color", func(t *testing.T) {
		cfg, err := Load(writeScene(t, `{"meshes": [{"shape": "tetrahedron"}]}`))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		m := cfg.Meshes[0]
		if m.Size != 0 || m.Color != "" {
			t.Errorf("mesh inherited default fields: %+v", m)
		}
	})

	t.Run("single light", func(t *testing.T) {
		cfg, err := Load(writeScene(t, `{"lights": [{"type": "point", "intensity": 1, "position": [0, 3, 0]}]}`))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(cfg.Lights) != 1 || cfg.Lights[0].Color != "" || cfg.Lights[0].Direction != ([3]float64{}) {
			t.Errorf("lights = %+v, want the point light alone", cfg.Lights)
		}
	})

	t.Run("camera without target", func(t *testing.T) {
		cfg, err := Load(writeScene(t, `{"camera": {"position": [0, 0, 8], "yaw": -90}}`))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Camera == nil || cfg.Camera.Target != nil || cfg.Camera.FOV != 0 {
			t.Errorf("camera = %+v, want the file camera alone", cfg.Camera)
		}
	})

	t.Run("empty lights", func(t *testing.T) {
		cfg, err := Load(writeScene(t, `{"lights": []}`))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(cfg.Lights) != 0 {
			t.Errorf("lights = %+v, want none", cfg.Lights)
		}
	})
}

func TestLoadMesh(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "cube.obj")
	if err := models.SaveOBJ(obj, models.Hexahedron(1)); err != nil {
		t.Fatal(err)
	}
	p, err := LoadMesh(obj)
	if err != nil {
		t.Fatalf("LoadMesh: %v", err)
	}
	if p.FaceCount() != 6 {
		t.Errorf("faces = %d, want 6", p.FaceCount())
	}
	if _, err := LoadMesh(filepath.Join(dir, "cube.ply")); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target error
	}{
		{"unknown shape", `{"meshes": [{"shape": "dodecahedron"}]}`, ErrUnknownShape},
		{"unknown light", `{"lights": [{"type": "spot", "intensity": 1}]}`, ErrUnknownLight},
		{"bad color", `{"background": "not-a-color"}`, ErrInvalid},
		{"bad shading", `{"shading": "toon"}`, ErrInvalid},
		{"no meshes", `{"meshes": []}`, ErrInvalid},
		{"shape and file", `{"meshes": [{"shape": "cube", "file": "a.obj"}]}`, ErrInvalid},
		{"directional without direction", `{"lights": [{"type": "directional", "intensity": 1}]}`, ErrInvalid},
		{"bad clip planes", `{"camera": {"position": [0, 0, 5], "near": 5, "far": 1}}`, ErrInvalid},
		{"zero size", `{"width": 0}`, ErrInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeScene(t, tc.body))
			if !errors.Is(err, tc.target) {
				t.Errorf("err = %v, want %v", err, tc.target)
			}
		})
	}

	if _, err := Load(writeScene(t, `{"colour": "#fff"}`)); err == nil {
		t.Error("unknown fields should be rejected")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Camera = nil
	cfg.Projection = "axonometric"
	path := filepath.Join(t.TempDir(), "out.json")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Camera != nil {
		t.Error("null camera should stay null")
	}
	if got.Projection != "axonometric" || got.Width != cfg.Width {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	w, shading, noCam, cull := 64, "gouraud", false, false
	cfg.ApplyOverrides(Overrides{Width: &w, Shading: &shading, Camera: &noCam, Culling: &cull})

	if cfg.Width != 64 || cfg.Height != Default().Height {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Shading != "gouraud" || cfg.Culling || cfg.Camera != nil {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	withCam := true
	cfg.ApplyOverrides(Overrides{Camera: &withCam})
	if cfg.Camera == nil {
		t.Error("camera override should restore the default camera")
	}
}

func TestBuildShapes(t *testing.T) {
	for _, name := range ShapeNames() {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Meshes = []MeshConfig{{Shape: name, Size: 1, Resolution: 8, Seed: 3}}
			s, err := Build(cfg)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			m := s.Meshes[0]
			if m.FaceCount() == 0 {
				t.Fatal("no faces")
			}
			if c := m.Center(); c.Len() > 1e-6 {
				t.Errorf("center = %v, want origin", c)
			}
		})
	}
}

func TestBuildHeightfieldIsUpright(t *testing.T) {
	cfg := Default()
	cfg.Meshes = []MeshConfig{{Shape: "paraboloid", Size: 2, Resolution: 8}}
	s, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ext := s.Meshes[0].Size()
	// The bowl is 4 wide in X and Z and 8 tall.
	if math.Abs(ext.X-4) > 1e-9 || math.Abs(ext.Z-4) > 1e-9 || math.Abs(ext.Y-8) > 1e-9 {
		t.Errorf("extent = %v, want (4, 8, 4)", ext)
	}
}

func TestBuildMeshTransforms(t *testing.T) {
	cfg := Default()
	cfg.Meshes = []MeshConfig{{
		Shape:    "cube",
		Size:     2,
		Color:    "#102030",
		Position: [3]float64{5, 0, 0},
		Rotation: [3]float64{0, 45, 0},
	}}
	s, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	m := s.Meshes[0]
	if !m.Center().ApproxEqual(math3d.V3(5, 0, 0), 1e-9) {
		t.Errorf("center = %v, want (5, 0, 0)", m.Center())
	}
	if want := render.RGB(0x10, 0x20, 0x30); m.Color != want {
		t.Errorf("color = %v, want %v", m.Color, want)
	}
	// A cube turned 45° about Y is √2 times wider in X.
	if ext := m.Size(); math.Abs(ext.X-2*math.Sqrt2) > 1e-9 || math.Abs(ext.Y-2) > 1e-9 {
		t.Errorf("extent = %v", ext)
	}
}

func TestBuildFromFile(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "tetra.obj")
	if err := models.SaveOBJ(obj, models.Tetrahedron(1)); err != nil {
		t.Fatal(err)
	}
	glb := filepath.Join(dir, "cube.glb")
	if err := models.SaveGLB(glb, models.Hexahedron(1)); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Meshes = []MeshConfig{{File: obj, Size: 3}, {File: glb}}
	s, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := s.Meshes[0].FaceCount(); got != 4 {
		t.Errorf("obj faces = %d, want 4", got)
	}
	ext := s.Meshes[0].Size()
	if largest := max(ext.X, ext.Y, ext.Z); math.Abs(largest-3) > 1e-9 {
		t.Errorf("normalized extent = %v, want 3", largest)
	}
	if got := s.Meshes[1].VertexCount(); got != 8 {
		t.Errorf("glb vertices = %d, want 8", got)
	}

	cfg.Meshes = []MeshConfig{{File: filepath.Join(dir, "mesh.stl")}}
	if _, err := Build(cfg); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestBuildLightsAndCamera(t *testing.T) {
	cfg := Default()
	cfg.Lights = []LightConfig{
		{Type: "ambient", Intensity: 0.3},
		{Type: "Directional", Color: "#ff0000", Intensity: 1, Direction: [3]float64{0, 2, 0}},
		{Type: "point", Intensity: 2, Position: [3]float64{1, 2, 3}},
	}
	cfg.Camera = &CameraConfig{Position: [3]float64{0, 0, 8}, Yaw: -90, FOV: 90}
	s, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if a, ok := s.Lights[0].(render.AmbientLight); !ok || a.Color != render.White {
		t.Errorf("light 0 = %#v", s.Lights[0])
	}
	if d, ok := s.Lights[1].(render.DirectionalLight); !ok || d.Direction != math3d.V3(0, 1, 0) || d.Color != render.Red {
		t.Errorf("light 1 = %#v", s.Lights[1])
	}
	if p, ok := s.Lights[2].(render.PointLight); !ok || p.Position != math3d.V3(1, 2, 3) {
		t.Errorf("light 2 = %#v", s.Lights[2])
	}

	if !s.Camera.Direction.ApproxEqual(math3d.V3(0, 0, -1), 1e-9) {
		t.Errorf("camera direction = %v", s.Camera.Direction)
	}
	if math.Abs(s.Camera.FOV-math.Pi/2) > 1e-12 {
		t.Errorf("FOV = %v", s.Camera.FOV)
	}
}

func TestSnapshot(t *testing.T) {
	s, err := Build(Default())
	if err != nil {
		t.Fatal(err)
	}

	still := s.Snapshot(0)
	if still.Meshes[0] != render.Mesh(s.Meshes[0]) {
		t.Error("zero angle should reuse the mesh")
	}
	if still.Camera == s.Camera {
		t.Error("snapshot must own its camera")
	}

	quarter := s.Snapshot(math.Pi / 2)
	before := s.Meshes[0].Vertex(7)
	after := quarter.Meshes[0].Vertex(7)
	want := math3d.V3(before.Z, before.Y, -before.X)
	if !after.ApproxEqual(want, 1e-9) {
		t.Errorf("rotated vertex = %v, want %v", after, want)
	}
	if s.Meshes[0].Vertex(7) != before {
		t.Error("snapshot modified the scene mesh")
	}
}

func TestSnapshotRenders(t *testing.T) {
	cfg := Default()
	cfg.Width, cfg.Height = 64, 64
	cfg.Axes = true
	cfg.Grid = true
	s, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	r := render.NewRasterizer(render.NewFramebuffer(s.Width, s.Height))
	r.Render(s.Snapshot(0.3))
	if r.Stats.FacesDrawn != 3 || r.Stats.FacesCulled != 3 {
		t.Errorf("stats = %+v, want 3 drawn and 3 culled", r.Stats)
	}
	if n := r.Framebuffer().Count(s.Background); n == 0 || n == 64*64 {
		t.Errorf("background pixels = %d", n)
	}
}
