package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/dragsim/internal/trajectory"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a braille grid of Width x Height cells, i.e. 2*Width x
// 4*Height dots. Each cell remembers which layers drew into it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	layers        [][]uint8
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		layers: make([][]uint8, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.layers[i] = make([]uint8, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y) for layer (0-7). Out of range dots are
// ignored.
func (c *Canvas) Set(x, y, layer int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
	c.layers[row][col] |= 1 << uint(layer)
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.layers[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1, layer int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, layer)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Bounds is the world rectangle mapped onto the canvas.
type Bounds struct {
	XMin, XMax, YMin, YMax float64
}

// TrajectoryBounds covers every sample of the given trajectories, with the
// ground always included.
func TrajectoryBounds(trs ...*trajectory.Trajectory) Bounds {
	b := Bounds{XMin: math.Inf(1), XMax: math.Inf(-1), YMin: 0, YMax: 0}
	for _, tr := range trs {
		if tr == nil {
			continue
		}
		for _, s := range tr.Samples {
			b.XMin = math.Min(b.XMin, s.X)
			b.XMax = math.Max(b.XMax, s.X)
			b.YMin = math.Min(b.YMin, s.Y)
			b.YMax = math.Max(b.YMax, s.Y)
		}
	}
	if math.IsInf(b.XMin, 1) {
		b.XMin, b.XMax = 0, 1
	}
	if b.XMax == b.XMin {
		b.XMax = b.XMin + 1
	}
	if b.YMax == b.YMin {
		b.YMax = b.YMin + 1
	}
	return b
}

func (c *Canvas) project(b Bounds, x, y float64) (int, int) {
	cw, ch := float64(c.Width*2-1), float64(c.Height*4-1)
	px := (x - b.XMin) / (b.XMax - b.XMin) * cw
	py := (b.YMax - y) / (b.YMax - b.YMin) * ch
	return int(math.Round(px)), int(math.Round(py))
}

// DrawTrajectory connects consecutive samples of tr in world space.
func (c *Canvas) DrawTrajectory(tr *trajectory.Trajectory, b Bounds, layer int) {
	if tr == nil || tr.Len() == 0 {
		return
	}
	px, py := c.project(b, tr.Samples[0].X, tr.Samples[0].Y)
	c.Set(px, py, layer)
	for _, s := range tr.Samples[1:] {
		x, y := c.project(b, s.X, s.Y)
		if x == px && y == py {
			continue
		}
		c.DrawLine(px, py, x, y, layer)
		px, py = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors each cell by the layers that touched it. styles[i] is used
// for cells drawn only by layer i; overlap styles cells with several
// layers.
func (c *Canvas) Render(styles []lipgloss.Style, overlap lipgloss.Style) string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			mask := c.layers[i][j]
			switch {
			case mask == 0:
				b.WriteRune(r)
			case mask&(mask-1) != 0:
				b.WriteString(overlap.Render(string(r)))
			default:
				layer := 0
				for mask > 1 {
					mask >>= 1
					layer++
				}
				if layer < len(styles) {
					b.WriteString(styles[layer].Render(string(r)))
				} else {
					b.WriteRune(r)
				}
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
