package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/polyview/pkg/scene"
)

// sceneFlags are the scene overrides shared by every rendering command.
type sceneFlags struct {
	width      int
	height     int
	shading    string
	projection string
	camera     bool
	noCull     bool
	axes       bool
	grid       bool
	background string
}

func (f *sceneFlags) bind(cmd *cobra.Command, size bool) {
	fs := cmd.Flags()
	if size {
		fs.IntVar(&f.width, "width", 0, "image width in pixels")
		fs.IntVar(&f.height, "height", 0, "image height in pixels")
	}
	fs.StringVar(&f.shading, "shading", "", "shading mode (phong, gouraud, flat, wireframe)")
	fs.StringVar(&f.projection, "projection", "", "projection (perspective, axonometric)")
	fs.BoolVar(&f.camera, "camera", true, "use the scene camera; false selects the fixed projections")
	fs.BoolVar(&f.noCull, "no-cull", false, "disable back-face culling")
	fs.BoolVar(&f.axes, "axes", false, "draw the coordinate axes")
	fs.BoolVar(&f.grid, "grid", false, "draw the ground grid")
	fs.StringVar(&f.background, "background", "", "background color (#rrggbb)")
}

// overrides returns only the flags the user actually set.
func (f *sceneFlags) overrides(cmd *cobra.Command) scene.Overrides {
	var o scene.Overrides
	changed := cmd.Flags().Changed
	if changed("width") {
		o.Width = &f.width
	}
	if changed("height") {
		o.Height = &f.height
	}
	if changed("shading") {
		o.Shading = &f.shading
	}
	if changed("projection") {
		o.Projection = &f.projection
	}
	if changed("camera") {
		o.Camera = &f.camera
	}
	if changed("no-cull") {
		cull := !f.noCull
		o.Culling = &cull
	}
	if changed("axes") {
		o.Axes = &f.axes
	}
	if changed("grid") {
		o.Grid = &f.grid
	}
	if changed("background") {
		o.Background = &f.background
	}
	return o
}

// loadScene reads the optional scene file, applies the flag overrides and
// builds the scene.
func loadScene(cmd *cobra.Command, args []string, f *sceneFlags, logger *log.Logger) (*scene.Scene, error) {
	cfg := scene.Default()
	if len(args) > 0 {
		var err error
		if cfg, err = scene.Load(args[0]); err != nil {
			return nil, err
		}
		logger.Debug("scene loaded", "path", args[0], "meshes", len(cfg.Meshes), "lights", len(cfg.Lights))
	}
	cfg.ApplyOverrides(f.overrides(cmd))

	s, err := scene.Build(cfg)
	if err != nil {
		return nil, err
	}
	verts, faces := s.Counts()
	logger.Debug("scene built", "vertices", verts, "faces", faces, "camera", s.Camera != nil,
		"projection", s.Projection, "shading", s.Shading, "culling", s.Culling)
	return s, nil
}
