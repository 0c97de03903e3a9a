// polyview - software 3D renderer for polyhedral meshes
//
// Renders built-in solids, surfaces and OBJ/glTF meshes with a depth-buffered
// Phong rasterizer to image files, an animated WebP turntable, a desktop
// window or the terminal.
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "polyview",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	root := newRootCmd(logger)
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	var level string
	root := &cobra.Command{
		Use:   "polyview",
		Short: "Render polyhedral meshes with a software Z-buffer rasterizer",
		Long: `polyview projects polyhedral meshes through a yaw/pitch camera or a fixed
axonometric view, rasterizes them with a depth buffer and shades them with
ambient, directional and point lights.

Scenes are JSON files; without one, a lit cube is shown.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lvl, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&level, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRenderCmd(logger),
		newSpinCmd(logger),
		newViewCmd(logger),
		newTermCmd(logger),
		newConvertCmd(logger),
		newShapesCmd(),
	)
	return root
}
