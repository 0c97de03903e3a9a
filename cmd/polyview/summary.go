package main

import (
	"fmt"
	"image"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/polyview/pkg/render"
	"github.com/taigrr/polyview/pkg/scene"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3b4261")).
			Padding(0, 1)
)

type summary struct {
	output  string
	bounds  image.Rectangle
	scene   *scene.Scene
	stats   render.FrameStats
	frames  int
	elapsed time.Duration
}

func (s summary) rows() [][2]string {
	verts, faces := s.scene.Counts()
	view := "fixed " + s.scene.Projection.String()
	if s.scene.Camera != nil {
		view = "camera"
	}
	rows := [][2]string{
		{"output", s.output},
		{"size", fmt.Sprintf("%d×%d", s.bounds.Dx(), s.bounds.Dy())},
		{"meshes", fmt.Sprintf("%d (%d vertices, %d faces)", len(s.scene.Meshes), verts, faces)},
		{"view", view},
		{"shading", s.scene.Shading.String()},
	}
	if s.frames == 1 {
		st := s.stats
		rows = append(rows,
			[2]string{"faces", fmt.Sprintf("%d drawn, %d culled, %d clipped", st.FacesDrawn, st.FacesCulled, st.FacesClipped)},
			[2]string{"pixels", fmt.Sprint(st.PixelsWritten)},
		)
	} else {
		rows = append(rows, [2]string{"frames", fmt.Sprint(s.frames)})
	}
	return append(rows, [2]string{"time", s.elapsed.Round(time.Microsecond).String()})
}

func printSummary(cmd *cobra.Command, s summary) {
	lines := []string{titleStyle.Render("polyview")}
	for _, r := range s.rows() {
		lines = append(lines, keyStyle.Render(r[0])+valueStyle.Render(r[1]))
	}
	lipgloss.Fprintln(cmd.OutOrStdout(), boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func printShapes(cmd *cobra.Command, names []string) {
	lipgloss.Fprintln(cmd.OutOrStdout(), titleStyle.Render("shapes"))
	lipgloss.Fprintln(cmd.OutOrStdout(), valueStyle.Render(strings.Join(names, "\n")))
}
