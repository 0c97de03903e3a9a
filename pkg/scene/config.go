// Package scene describes renderable scenes as JSON and turns them into
// render.SceneState values.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/taigrr/polyview/pkg/math3d"
	"github.com/taigrr/polyview/pkg/models"
	"github.com/taigrr/polyview/pkg/render"
)

var (
	// ErrUnknownShape is returned for mesh shapes that are neither built in
	// nor a surface preset.
	ErrUnknownShape = models.ErrUnknownShape
	// ErrUnknownLight is returned for light types other than ambient,
	// directional and point.
	ErrUnknownLight = errors.New("unknown light type")
	// ErrInvalid is wrapped by every other validation failure.
	ErrInvalid = errors.New("invalid scene")
)

// Config is the on-disk scene description.
type Config struct {
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Shading    string        `json:"shading"`
	Projection string        `json:"projection"`
	Culling    bool          `json:"culling"`
	Background string        `json:"background"`
	Scale      float64       `json:"scale,omitempty"` // Pixels per unit; 0 picks a default
	Camera     *CameraConfig `json:"camera"`          // null selects the fixed projections

	Shininess   float64 `json:"shininess"`
	Attenuation float64 `json:"attenuation"`

	Axes       bool    `json:"axes,omitempty"`
	AxisLength float64 `json:"axis_length,omitempty"`
	Grid       bool    `json:"grid,omitempty"`
	GridSize   float64 `json:"grid_size,omitempty"`

	Meshes []MeshConfig  `json:"meshes"`
	Lights []LightConfig `json:"lights"`
}

// CameraConfig places the camera. When Target is set it overrides Yaw and
// Pitch.
type CameraConfig struct {
	Position [3]float64  `json:"position"`
	Target   *[3]float64 `json:"target,omitempty"`
	Yaw      float64     `json:"yaw,omitempty"`   // Degrees
	Pitch    float64     `json:"pitch,omitempty"` // Degrees
	FOV      float64     `json:"fov,omitempty"`   // Vertical, degrees
	Near     float64     `json:"near,omitempty"`
	Far      float64     `json:"far,omitempty"`
}

// MeshConfig is one mesh: a built-in shape, a surface preset or a file.
// Exactly one of Shape and File must be set.
type MeshConfig struct {
	Shape string `json:"shape,omitempty"`
	File  string `json:"file,omitempty"`

	Size       float64 `json:"size,omitempty"`       // Edge length, radius or normalized extent
	Resolution int     `json:"resolution,omitempty"` // Surface grid or profile divisions
	Amplitude  float64 `json:"amplitude,omitempty"`  // Noise height
	Seed       int64   `json:"seed,omitempty"`
	Axis       string  `json:"axis,omitempty"` // Revolution axis

	Color    string     `json:"color,omitempty"`
	Position [3]float64 `json:"position,omitempty"`
	Rotation [3]float64 `json:"rotation,omitempty"` // Degrees about X, then Y, then Z
	Reflect  string     `json:"reflect,omitempty"`  // "xy", "yz" or "xz"
}

// LightConfig is one light. Direction points toward the light.
type LightConfig struct {
	Type      string     `json:"type"`
	Color     string     `json:"color,omitempty"`
	Intensity float64    `json:"intensity"`
	Direction [3]float64 `json:"direction,omitempty"`
	Position  [3]float64 `json:"position,omitempty"`
}

// Default returns the built-in scene: a lit cube seen by a perspective
// camera.
func Default() Config {
	return Config{
		Width:       480,
		Height:      480,
		Shading:     render.ShadingPhong.String(),
		Projection:  render.ProjectionPerspective.String(),
		Culling:     true,
		Background:  "#16161e",
		Camera:      DefaultCamera(),
		Shininess:   render.DefaultShadingConfig().Shininess,
		Attenuation: render.DefaultShadingConfig().Attenuation,
		AxisLength:  1.5,
		GridSize:    6,
		Meshes: []MeshConfig{
			{Shape: "cube", Size: 2, Color: "#7aa2f7"},
		},
		Lights: []LightConfig{
			{Type: "ambient", Color: "#ffffff", Intensity: 0.2},
			{Type: "directional", Color: "#ffffff", Intensity: 0.8, Direction: [3]float64{1, 1, 1}},
		},
	}
}

// DefaultCamera looks at the origin from the upper front right.
func DefaultCamera() *CameraConfig {
	return &CameraConfig{
		Position: [3]float64{3.5, 2.5, 5},
		Target:   &[3]float64{0, 0, 0},
		FOV:      60,
		Near:     0.1,
		Far:      1000,
	}
}

// Load reads a JSON scene. Fields missing from the file keep the values of
// Default; meshes, lights and a camera given in the file replace the
// defaults whole.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("scene: read %s: %w", path, err)
	}
	defer f.Close()

	// Decoding into non-empty slices or a set pointer would merge file
	// entries into the defaults, so meshes, lights and camera start empty.
	cfg := Default()
	cfg.Meshes, cfg.Lights = nil, nil
	cam := &CameraConfig{}
	cfg.Camera = cam
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	def := Default()
	if cfg.Meshes == nil {
		cfg.Meshes = def.Meshes
	}
	if cfg.Lights == nil {
		cfg.Lights = def.Lights
	}
	if cfg.Camera == cam && *cam == (CameraConfig{}) {
		cfg.Camera = def.Camera
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("scene: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as indented JSON.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("scene: encode: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return nil
}

// Validate checks everything Build would otherwise reject, without loading
// mesh files.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if _, err := render.ParseShadingMode(c.Shading); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := render.ParseProjectionMode(c.Projection); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := render.ParseColor(c.Background); err != nil {
		return fmt.Errorf("%w: background: %w", ErrInvalid, err)
	}
	if c.Shininess < 0 || c.Attenuation < 0 {
		return fmt.Errorf("%w: shininess and attenuation must not be negative", ErrInvalid)
	}
	if c.Camera != nil {
		if err := c.Camera.validate(); err != nil {
			return err
		}
	}

	if len(c.Meshes) == 0 {
		return fmt.Errorf("%w: no meshes", ErrInvalid)
	}
	for i, m := range c.Meshes {
		if err := m.validate(); err != nil {
			return fmt.Errorf("mesh %d: %w", i, err)
		}
	}
	for i, l := range c.Lights {
		if err := l.validate(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

func (c *CameraConfig) validate() error {
	if c.FOV != 0 && (c.FOV <= 0 || c.FOV >= 180) {
		return fmt.Errorf("%w: camera fov %g", ErrInvalid, c.FOV)
	}
	near, far := c.clipPlanes()
	if near <= 0 || far <= near {
		return fmt.Errorf("%w: camera clip planes %g..%g", ErrInvalid, near, far)
	}
	if c.Target != nil && vec(*c.Target) == vec(c.Position) {
		return fmt.Errorf("%w: camera target equals its position", ErrInvalid)
	}
	return nil
}

func (c *CameraConfig) clipPlanes() (near, far float64) {
	near, far = c.Near, c.Far
	if near == 0 {
		near = 0.1
	}
	if far == 0 {
		far = 1000
	}
	return near, far
}

func (m MeshConfig) validate() error {
	switch {
	case m.Shape == "" && m.File == "":
		return fmt.Errorf("%w: mesh needs a shape or a file", ErrInvalid)
	case m.Shape != "" && m.File != "":
		return fmt.Errorf("%w: mesh has both shape %q and file %q", ErrInvalid, m.Shape, m.File)
	}
	if m.Shape != "" && !isShape(m.Shape) {
		return fmt.Errorf("%w: %q", ErrUnknownShape, m.Shape)
	}
	if m.Size < 0 || m.Resolution < 0 {
		return fmt.Errorf("%w: negative size or resolution", ErrInvalid)
	}
	if m.Color != "" {
		if _, err := render.ParseColor(m.Color); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if m.Axis != "" {
		if _, ok := models.ParseAxis(m.Axis); !ok {
			return fmt.Errorf("%w: axis %q", ErrInvalid, m.Axis)
		}
	}
	if m.Reflect != "" {
		if _, ok := math3d.ParsePlane(m.Reflect); !ok {
			return fmt.Errorf("%w: reflection plane %q", ErrInvalid, m.Reflect)
		}
	}
	return nil
}

func (l LightConfig) validate() error {
	switch strings.ToLower(l.Type) {
	case "ambient", "point":
	case "directional":
		if vec(l.Direction).LenSq() == 0 {
			return fmt.Errorf("%w: directional light without direction", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLight, l.Type)
	}
	if l.Intensity < 0 {
		return fmt.Errorf("%w: negative intensity %g", ErrInvalid, l.Intensity)
	}
	if l.Color != "" {
		if _, err := render.ParseColor(l.Color); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}

// Overrides holds command-line values that replace file settings. Nil
// fields leave the file value alone.
type Overrides struct {
	Width      *int
	Height     *int
	Shading    *string
	Projection *string
	Camera     *bool // false drops the camera, true adds the default one if missing
	Culling    *bool
	Axes       *bool
	Grid       *bool
	Background *string
}

// ApplyOverrides copies every set override into c.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Width != nil {
		c.Width = *o.Width
	}
	if o.Height != nil {
		c.Height = *o.Height
	}
	if o.Shading != nil {
		c.Shading = *o.Shading
	}
	if o.Projection != nil {
		c.Projection = *o.Projection
	}
	if o.Camera != nil {
		switch {
		case !*o.Camera:
			c.Camera = nil
		case c.Camera == nil:
			c.Camera = DefaultCamera()
		}
	}
	if o.Culling != nil {
		c.Culling = *o.Culling
	}
	if o.Axes != nil {
		c.Axes = *o.Axes
	}
	if o.Grid != nil {
		c.Grid = *o.Grid
	}
	if o.Background != nil {
		c.Background = *o.Background
	}
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}
