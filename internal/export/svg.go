package export

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/san-kum/dragsim/internal/trajectory"
)

// PlotStyle carries every styling decision of the trajectory plot. It is
// passed by value at render time.
type PlotStyle struct {
	Width, Height int
	// Margin around the plot area, in pixels.
	Margin int

	Title  string
	XLabel string
	YLabel string

	FontFamily string
	FontSize   float64

	Background   string
	GridColor    string
	AxisColor    string
	GalileoColor string
	NewtonColor  string

	GalileoLabel string
	NewtonLabel  string

	StrokeWidth  float64
	MarkerRadius float64
	GridLines    int
}

func DefaultPlotStyle() PlotStyle {
	return PlotStyle{
		Width:        900,
		Height:       500,
		Margin:       60,
		Title:        "Trajectory comparison: Galileo vs Newton with drag",
		XLabel:       "x, m",
		YLabel:       "y, m",
		FontFamily:   "DejaVu Sans, Arial, Liberation Sans, Noto Sans, sans-serif",
		FontSize:     13,
		Background:   "#ffffff",
		GridColor:    "#e5e5e5",
		AxisColor:    "#000000",
		GalileoColor: "#1f77b4",
		NewtonColor:  "#ff7f0e",
		GalileoLabel: "Galileo model (no drag)",
		NewtonLabel:  "Newton model + drag (RK4)",
		StrokeWidth:  2.0,
		MarkerRadius: 4.0,
		GridLines:    5,
	}
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func plotBounds(trs ...*trajectory.Trajectory) bounds {
	b := bounds{minX: math.Inf(1), maxX: math.Inf(-1), minY: 0, maxY: 0}
	for _, tr := range trs {
		for _, s := range tr.Samples {
			b.minX = math.Min(b.minX, s.X)
			b.maxX = math.Max(b.maxX, s.X)
			b.minY = math.Min(b.minY, s.Y)
			b.maxY = math.Max(b.maxY, s.Y)
		}
	}
	if math.IsInf(b.minX, 1) {
		b.minX, b.maxX = 0, 1
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.05
	b.maxX += rangeX * 0.05
	b.minY -= rangeY * 0.05
	b.maxY += rangeY * 0.1
	return b
}

type projector struct {
	b             bounds
	left, top     float64
	width, height float64
}

func (p projector) point(x, y float64) (float64, float64) {
	px := p.left + (x-p.b.minX)/(p.b.maxX-p.b.minX)*p.width
	py := p.top + p.height - (y-p.b.minY)/(p.b.maxY-p.b.minY)*p.height
	return px, py
}

// WritePlotSVG renders both trajectories as polylines with a marker at each
// landing point on the ground line.
func WritePlotSVG(w io.Writer, galileo, newton *trajectory.Trajectory, style PlotStyle) error {
	if galileo == nil || newton == nil {
		return fmt.Errorf("plot needs both trajectories")
	}

	b := plotBounds(galileo, newton)
	m := float64(style.Margin)
	proj := projector{
		b:      b,
		left:   m,
		top:    m,
		width:  float64(style.Width) - 2*m,
		height: float64(style.Height) - 2*m,
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="%s" font-size="%.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, style.Width, style.Height, style.Width, style.Height, html.EscapeString(style.FontFamily), style.FontSize, style.Background)

	writeGrid(&sb, proj, style)

	// ground line y = 0
	gx0, gy := proj.point(b.minX, 0)
	gx1, _ := proj.point(b.maxX, 0)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1"/>
`, gx0, gy, gx1, gy, style.AxisColor)

	series := []struct {
		tr    *trajectory.Trajectory
		color string
		label string
	}{
		{galileo, style.GalileoColor, style.GalileoLabel},
		{newton, style.NewtonColor, style.NewtonLabel},
	}

	for _, s := range series {
		writePolyline(&sb, proj, s.tr, s.color, style.StrokeWidth)
	}
	for _, s := range series {
		if s.tr.Len() == 0 {
			continue
		}
		cx, cy := proj.point(s.tr.Last().X, 0)
		fmt.Fprintf(&sb, `<circle class="landing" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, style.MarkerRadius, s.color)
	}

	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="%.0f">%s</text>
`, float64(style.Width)/2, m/2, style.FontSize+2, html.EscapeString(style.Title))
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" text-anchor="middle">%s</text>
`, float64(style.Width)/2, float64(style.Height)-m/4, html.EscapeString(style.XLabel))
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" text-anchor="middle" transform="rotate(-90 %.1f %.1f)">%s</text>
`, m/4, float64(style.Height)/2, m/4, float64(style.Height)/2, html.EscapeString(style.YLabel))

	for i, s := range series {
		lx := proj.left + proj.width - 260
		ly := proj.top + 16 + float64(i)*20
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
<text x="%.1f" y="%.1f">%s</text>
`, lx, ly, lx+24, ly, s.color, style.StrokeWidth, lx+30, ly+4, html.EscapeString(s.label))
	}

	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func SavePlotSVG(path string, galileo, newton *trajectory.Trajectory, style PlotStyle) error {
	return writeFile(path, func(w io.Writer) error {
		return WritePlotSVG(w, galileo, newton, style)
	})
}

func writePolyline(sb *strings.Builder, proj projector, tr *trajectory.Trajectory, color string, width float64) {
	if tr.Len() == 0 {
		return
	}
	fmt.Fprintf(sb, `<path class="%s" fill="none" stroke="%s" stroke-width="%.1f" d="M`, tr.Model, color, width)
	for i, s := range tr.Samples {
		x, y := proj.point(s.X, s.Y)
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

func writeGrid(sb *strings.Builder, proj projector, style PlotStyle) {
	if style.GridLines <= 0 {
		return
	}
	b := proj.b
	for i := 0; i <= style.GridLines; i++ {
		f := float64(i) / float64(style.GridLines)

		xv := b.minX + f*(b.maxX-b.minX)
		x, _ := proj.point(xv, 0)
		fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
<text x="%.1f" y="%.1f" text-anchor="middle" fill="#555555">%.3g</text>
`, x, proj.top, x, proj.top+proj.height, style.GridColor, x, proj.top+proj.height+16, xv)

		yv := b.minY + f*(b.maxY-b.minY)
		_, y := proj.point(0, yv)
		fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
<text x="%.1f" y="%.1f" text-anchor="end" fill="#555555">%.3g</text>
`, proj.left, y, proj.left+proj.width, y, style.GridColor, proj.left-6, y+4, yv)
	}
}
