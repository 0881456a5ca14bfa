package viz

import (
	"fmt"
	"io"
	"os"

	"github.com/guptarohit/asciigraph"
	"golang.org/x/term"

	"github.com/san-kum/dragsim/internal/trajectory"
)

const (
	defaultPlotHeight   = 15
	minPlotWidth        = 10
	plotAxisWidth       = 12
	terminalWidthBackup = 80
)

type PlotOptions struct {
	// Width is the number of columns of the x grid. Zero fits the
	// terminal.
	Width  int
	Height int
	Color  bool
}

// Resample evaluates the height of every trajectory on a shared grid of n
// horizontal positions spanning all of them. Positions beyond a trajectory's
// range read as ground level.
func Resample(n int, trs ...*trajectory.Trajectory) (xs []float64, heights [][]float64) {
	if n < 2 {
		n = 2
	}
	b := TrajectoryBounds(trs...)

	xs = make([]float64, n)
	step := (b.XMax - b.XMin) / float64(n-1)
	for i := range xs {
		xs[i] = b.XMin + float64(i)*step
	}
	xs[n-1] = b.XMax

	heights = make([][]float64, len(trs))
	for k, tr := range trs {
		heights[k] = make([]float64, n)
		if tr == nil {
			continue
		}
		for i, x := range xs {
			if y, ok := tr.HeightAt(x); ok {
				heights[k][i] = y
			}
		}
	}
	return xs, heights
}

// PlotTrajectories renders galileo and newton heights against horizontal
// distance as a line chart.
func PlotTrajectories(galileo, newton *trajectory.Trajectory, opts PlotOptions) string {
	width := opts.Width
	if width <= 0 {
		width = TerminalWidth() - plotAxisWidth
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}

	xs, heights := Resample(width, galileo, newton)

	colors := []asciigraph.AnsiColor{asciigraph.Default, asciigraph.Default}
	if opts.Color {
		colors = []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red}
	}

	return asciigraph.PlotMany(heights,
		asciigraph.Height(height),
		asciigraph.Precision(4),
		asciigraph.LowerBound(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(trajectory.ModelGalileo, trajectory.ModelNewton),
		asciigraph.Caption(fmt.Sprintf("height (m) vs x from %.4g to %.4g m", xs[0], xs[len(xs)-1])),
	)
}

func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether w is a terminal and NO_COLOR is unset.
func ShouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
