// Package window shows a scene in a desktop window.
package window

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/polyview/pkg/render"
	"github.com/taigrr/polyview/pkg/scene"
	"github.com/taigrr/polyview/pkg/viewer"
)

// TPS is the window update rate.
const TPS = 60

// Window is an ebiten game that renders the scene every frame at the scene
// size; ebiten scales it to the window.
type Window struct {
	ctx    context.Context
	scene  *scene.Scene
	orbit  *viewer.Orbit
	ctrl   *viewer.Controls
	raster *render.Rasterizer
	img    *ebiten.Image
	logger *log.Logger
}

var windowKeys = map[ebiten.Key]viewer.Action{
	ebiten.KeyEscape: viewer.ActionQuit,
	ebiten.KeyQ:      viewer.ActionQuit,
	ebiten.KeySpace:  viewer.ActionToggleSpin,
	ebiten.KeyC:      viewer.ActionToggleCulling,
	ebiten.KeyS:      viewer.ActionCycleShading,
	ebiten.KeyP:      viewer.ActionToggleProjection,
	ebiten.KeyR:      viewer.ActionReset,
}

var windowHeldKeys = map[ebiten.Key]viewer.Action{
	ebiten.KeyArrowLeft:  viewer.ActionOrbitLeft,
	ebiten.KeyArrowRight: viewer.ActionOrbitRight,
	ebiten.KeyArrowUp:    viewer.ActionOrbitUp,
	ebiten.KeyArrowDown:  viewer.ActionOrbitDown,
}

// New creates the window game for s. The turntable spins at speed
// radians per second.
func New(ctx context.Context, s *scene.Scene, speed float64, logger *log.Logger) *Window {
	orbit := viewer.NewOrbit(TPS, speed)
	return &Window{
		ctx:    ctx,
		scene:  s,
		orbit:  orbit,
		ctrl:   viewer.NewControls(s, orbit, logger),
		raster: render.NewRasterizer(render.NewFramebuffer(s.Width, s.Height)),
		logger: logger,
	}
}

// Update handles input and advances the turntable.
func (w *Window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	for key, a := range windowKeys {
		if inpututil.IsKeyJustPressed(key) && w.ctrl.Apply(a) {
			return ebiten.Termination
		}
	}
	for key, a := range windowHeldKeys {
		if ebiten.IsKeyPressed(key) {
			w.ctrl.Apply(a)
		}
	}
	w.orbit.Update()
	return nil
}

// Draw renders the scene and uploads it to the screen.
func (w *Window) Draw(screen *ebiten.Image) {
	w.raster.Render(w.scene.Snapshot(w.orbit.Angle))
	if w.img == nil {
		w.img = ebiten.NewImage(w.scene.Width, w.scene.Height)
	}
	w.img.WritePixels(w.raster.Framebuffer().ToImage().Pix)
	screen.DrawImage(w.img, nil)
}

// Layout keeps the logical screen at the scene size.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.scene.Width, w.scene.Height
}

// Run opens a desktop window and blocks until it is closed, a quit key
// is pressed or ctx ends.
func Run(ctx context.Context, s *scene.Scene, title string, speed float64, logger *log.Logger) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(s.Width, s.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(TPS)

	logger.Info("opening window", "title", title, "width", s.Width, "height", s.Height)
	return ebiten.RunGame(New(ctx, s, speed, logger))
}
