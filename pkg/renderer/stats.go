package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// RenderStats summarizes a finished (or cancelled) render
type RenderStats struct {
	Width      int
	Height     int
	Samples    int
	Tiles      int
	TilesDone  int
	NumWorkers int
	Elapsed    time.Duration
}

// RaysPerSecond estimates primary-ray throughput from the completed tiles
func (s RenderStats) RaysPerSecond() float64 {
	if s.Elapsed <= 0 || s.Tiles == 0 {
		return 0
	}
	pixels := float64(s.Width*s.Height) * float64(s.TilesDone) / float64(s.Tiles)
	return pixels * float64(s.Samples) / s.Elapsed.Seconds()
}

// Table formats the statistics as an aligned text table
func (s RenderStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Resolution", "Samples", "Tiles", "Workers", "Rays/sec", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", s.Width, s.Height),
		fmt.Sprintf("%d", s.Samples),
		fmt.Sprintf("%d/%d", s.TilesDone, s.Tiles),
		fmt.Sprintf("%d", s.NumWorkers),
		fmt.Sprintf("%.0f", s.RaysPerSecond()),
		s.Elapsed.Round(time.Millisecond).String(),
	})
	table.Render()
	return buf.String()
}
