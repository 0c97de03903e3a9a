package main

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/polyview/pkg/models"
	"github.com/taigrr/polyview/pkg/render"
	"github.com/taigrr/polyview/pkg/scene"
	"github.com/taigrr/polyview/pkg/viewer"
	"github.com/taigrr/polyview/pkg/viewer/window"
)

func newRenderCmd(logger *log.Logger) *cobra.Command {
	var (
		flags   sceneFlags
		output  string
		upscale int
		angle   float64
	)
	cmd := &cobra.Command{
		Use:   "render [scene.json]",
		Short: "Render one frame to a PNG, WebP or TGA image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(cmd, args, &flags, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			r := render.NewRasterizer(render.NewFramebuffer(s.Width, s.Height))
			r.Render(s.Snapshot(angle * degree))
			elapsed := time.Since(start)

			var img image.Image = r.Framebuffer().ToImage()
			if upscale > 1 {
				img = render.Upscale(img, upscale)
			}
			if err := render.SaveImage(output, img); err != nil {
				return err
			}
			logger.Info("rendered", "output", output, "elapsed", elapsed.Round(time.Microsecond))
			printSummary(cmd, summary{
				output:  output,
				bounds:  img.Bounds(),
				scene:   s,
				stats:   r.Stats,
				frames:  1,
				elapsed: elapsed,
			})
			return nil
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "polyview.png", "output image (.png, .webp, .tga)")
	cmd.Flags().IntVar(&upscale, "upscale", 1, "nearest-neighbor upscale factor")
	cmd.Flags().Float64Var(&angle, "angle", 0, "turntable angle in degrees")
	return cmd
}

func newSpinCmd(logger *log.Logger) *cobra.Command {
	var (
		flags   sceneFlags
		output  string
		frames  int
		workers int
		delay   uint
		upscale int
	)
	cmd := &cobra.Command{
		Use:   "spin [scene.json]",
		Short: "Render a full turntable revolution as an animated WebP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ext := strings.ToLower(filepath.Ext(output)); ext != ".webp" {
				return fmt.Errorf("%w: animations are written as .webp, not %q", render.ErrUnsupportedFormat, ext)
			}
			s, err := loadScene(cmd, args, &flags, logger)
			if err != nil {
				return err
			}

			start := time.Now()
			fbs, err := viewer.RenderFrames(cmd.Context(), s, frames, workers, logger)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			imgs := viewer.Images(fbs, upscale)
			if err := render.SaveAnimatedWebP(output, imgs, delay); err != nil {
				return err
			}
			logger.Info("animation written", "output", output, "frames", len(imgs))
			printSummary(cmd, summary{
				output:  output,
				bounds:  imgs[0].Bounds(),
				scene:   s,
				frames:  len(imgs),
				elapsed: elapsed,
			})
			return nil
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "polyview.webp", "output animation (.webp)")
	cmd.Flags().IntVar(&frames, "frames", 36, "frames per revolution")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel renderers (0 uses every CPU)")
	cmd.Flags().UintVar(&delay, "delay", 50, "frame delay in milliseconds")
	cmd.Flags().IntVar(&upscale, "upscale", 1, "nearest-neighbor upscale factor")
	return cmd
}

func newViewCmd(logger *log.Logger) *cobra.Command {
	var (
		flags sceneFlags
		speed float64
	)
	cmd := &cobra.Command{
		Use:   "view [scene.json]",
		Short: "Open an interactive window",
		Long: `Open an interactive window.

Keys: space spin, arrows orbit, c culling, s shading, p projection,
r reset, q or esc quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(cmd, args, &flags, logger)
			if err != nil {
				return err
			}
			title := "polyview"
			if len(args) > 0 {
				title += " - " + filepath.Base(args[0])
			}
			return window.Run(cmd.Context(), s, title, speed, logger)
		},
	}
	flags.bind(cmd, true)
	cmd.Flags().Float64Var(&speed, "speed", 0.8, "turntable speed in radians per second")
	return cmd
}

func newTermCmd(logger *log.Logger) *cobra.Command {
	var (
		flags sceneFlags
		fps   int
		speed float64
	)
	cmd := &cobra.Command{
		Use:   "term [scene.json]",
		Short: "Render interactively in the terminal with half-block pixels",
		Long: `Render interactively in the terminal with half-block pixels.

Keys: space spin, arrows or wasd orbit, c culling, s shading,
p projection, r reset, q or esc quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene(cmd, args, &flags, logger)
			if err != nil {
				return err
			}
			// Log lines would tear the alternate screen.
			if logger.GetLevel() < log.WarnLevel {
				logger.SetLevel(log.WarnLevel)
			}
			return viewer.RunTerminal(cmd.Context(), s, fps, speed, logger)
		},
	}
	flags.bind(cmd, false)
	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	cmd.Flags().Float64Var(&speed, "speed", 0.8, "turntable speed in radians per second")
	return cmd
}

func newConvertCmd(logger *log.Logger) *cobra.Command {
	var (
		size  float64
		color string
	)
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert meshes between OBJ and glTF binary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			p, err := scene.LoadMesh(in)
			if err != nil {
				return err
			}
			if size > 0 {
				p = p.Normalized(size)
			}
			if color != "" {
				c, err := render.ParseColor(color)
				if err != nil {
					return err
				}
				p.Color = c
			}
			if err := writeMesh(out, p); err != nil {
				return err
			}
			logger.Info("converted", "in", in, "out", out, "vertices", p.VertexCount(), "faces", p.FaceCount())
			return nil
		},
	}
	cmd.Flags().Float64Var(&size, "size", 0, "normalize the largest extent to this size (0 keeps it)")
	cmd.Flags().StringVar(&color, "color", "", "replace the mesh color (#rrggbb)")
	return cmd
}

func newShapesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the built-in shapes a scene may name",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printShapes(cmd, scene.ShapeNames())
		},
	}
}

func writeMesh(path string, p *models.Polyhedron) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return models.SaveOBJ(path, p)
	case ".glb":
		return models.SaveGLB(path, p)
	}
	return fmt.Errorf("%w: unsupported mesh output %s", scene.ErrInvalid, path)
}

const degree = math.Pi / 180
