package viewer

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/log"

	"github.com/taigrr/polyview/pkg/render"
	"github.com/taigrr/polyview/pkg/scene"
)

// termKeys maps key names as understood by uv.KeyPressEvent.MatchString.
var termKeys = []struct {
	keys   []string
	action Action
}{
	{[]string{"escape", "q", "ctrl+c"}, ActionQuit},
	{[]string{"space"}, ActionToggleSpin},
	{[]string{"c"}, ActionToggleCulling},
	{[]string{"s"}, ActionCycleShading},
	{[]string{"p"}, ActionToggleProjection},
	{[]string{"r"}, ActionReset},
	{[]string{"left", "a"}, ActionOrbitLeft},
	{[]string{"right", "d"}, ActionOrbitRight},
	{[]string{"up", "w"}, ActionOrbitUp},
	{[]string{"down"}, ActionOrbitDown},
}

func termAction(ev uv.KeyPressEvent) Action {
	for _, k := range termKeys {
		if ev.MatchString(k.keys...) {
			return k.action
		}
	}
	return ActionNone
}

// RunTerminal draws the scene in the terminal with half-block cells, two
// pixels per cell, until a quit key is pressed or ctx ends.
func RunTerminal(ctx context.Context, s *scene.Scene, fps int, speed float64, logger *log.Logger) error {
	fps = max(fps, 1)
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Display()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Warn("terminal shutdown", "err", err)
		}
	}()

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	orbit := NewOrbit(fps, speed)
	ctrl := NewControls(s, orbit, logger)
	raster := render.NewRasterizer(render.NewFramebuffer(width, height*2))

	// Events are forwarded so that only this goroutine touches the scene.
	// Returning on a quit key cancels ctx, which stops the forwarder.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := forwardEvents(ctx, term.Events())

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				raster.SetFramebuffer(render.NewFramebuffer(width, height*2))
			case uv.KeyPressEvent:
				if ctrl.Apply(termAction(ev)) {
					return nil
				}
			}

		case <-ticker.C:
			orbit.Update()
			raster.Render(s.Snapshot(orbit.Angle))
			raster.Framebuffer().Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// forwardEvents copies in to the returned channel until in closes or ctx
// ends, then closes it.
func forwardEvents(ctx context.Context, in <-chan uv.Event) <-chan uv.Event {
	out := make(chan uv.Event, 16)
	go func() {
		defer close(out)
		for {
			select {
			case ev, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
