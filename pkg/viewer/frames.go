package viewer

import (
	"context"
	"fmt"
	"image"
	"math"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/polyview/pkg/render"
	"github.com/taigrr/polyview/pkg/scene"
)

// RenderFrames renders n frames of one full turntable turn at the scene
// size. Frames are rendered by up to workers goroutines, each with its own
// framebuffer and rasterizer; workers <= 0 uses one per CPU.
func RenderFrames(ctx context.Context, s *scene.Scene, n, workers int, logger *log.Logger) ([]*render.Framebuffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("render frames: frame count %d", n)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	frames := make([]*render.Framebuffer, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	start := time.Now()
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fb := render.NewFramebuffer(s.Width, s.Height)
			r := render.NewRasterizer(fb)
			r.Render(s.Snapshot(angle))
			frames[i] = fb
			logger.Debug("frame rendered", "index", i, "faces", r.Stats.FacesDrawn, "pixels", r.Stats.PixelsWritten)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render frames: %w", err)
	}

	logger.Info("turntable rendered", "frames", n, "workers", workers, "elapsed", time.Since(start).Round(time.Millisecond))
	return frames, nil
}

// Images converts framebuffers for encoding, upscaling each by factor.
func Images(frames []*render.Framebuffer, factor int) []image.Image {
	out := make([]image.Image, len(frames))
	for i, fb := range frames {
		img := fb.ToImage()
		if factor > 1 {
			img = render.Upscale(img, factor)
		}
		out[i] = img
	}
	return out
}
