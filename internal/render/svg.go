package render

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/stepsim/internal/plot"
)

// SVGCanvas renders each presented frame as a standalone SVG document.
type SVGCanvas struct {
	Width, Height int
	Background    string

	palette *plot.Palette
	sink    FrameSink
	sb      strings.Builder
	frames  int
}

func NewSVGCanvas(width, height int, sink FrameSink) *SVGCanvas {
	return &SVGCanvas{
		Width:      width,
		Height:     height,
		Background: "#ffffff",
		palette:    plot.DefaultPalette(),
		sink:       sink,
	}
}

func (c *SVGCanvas) Frames() int { return c.frames }

func (c *SVGCanvas) Clear() error {
	c.sb.Reset()
	c.sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, c.Width, c.Height, c.Width, c.Height, c.Background))
	return nil
}

func (c *SVGCanvas) Polyline(x, y []float64, a plot.Attributes) error {
	c.sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="%.1f"%s points="%s"/>
`, c.palette.Hex(a.LineColor), a.LineWidth, dashArray(a.LineType, a.LineWidth), c.points(x, y)))
	return nil
}

func (c *SVGCanvas) Polymarker(x, y []float64, a plot.Attributes) error {
	col := c.palette.Hex(a.MarkerColor)
	r := markerRadius(a.MarkerSize)
	for i := range x {
		px, py := c.px(x[i], y[i])
		switch a.MarkerType {
		case plot.MarkerSquare, plot.MarkerSolidSquare:
			c.sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>
`, px-r, py-r, 2*r, 2*r, markerPaint(a.MarkerType, col)))
		default:
			c.sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" %s/>
`, px, py, r, markerPaint(a.MarkerType, col)))
		}
	}
	return nil
}

func (c *SVGCanvas) FillArea(x, y []float64, color int) error {
	c.sb.WriteString(fmt.Sprintf(`<polygon fill="%s" points="%s"/>
`, c.palette.Hex(color), c.points(x, y)))
	return nil
}

func (c *SVGCanvas) Arrow(x1, y1, x2, y2 float64, a plot.Attributes) error {
	col := c.palette.Hex(a.LineColor)
	sx, sy := c.px(x1, y1)
	ex, ey := c.px(x2, y2)
	c.sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
`, sx, sy, ex, ey, col, a.LineWidth))

	head := arrowHead(sx, sy, ex, ey, 0.02*float64(c.Height))
	if head != nil {
		c.sb.WriteString(fmt.Sprintf(`<polygon fill="%s" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>
`, col, ex, ey, head[0], head[1], head[2], head[3]))
	}
	return nil
}

func (c *SVGCanvas) Text(x, y float64, s string, style plot.TextStyle) error {
	px, py := c.px(x, y)
	var esc strings.Builder
	xml.EscapeText(&esc, []byte(s))
	family := "sans-serif"
	if style.Math {
		family = "serif"
	}
	c.sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" fill="%s">%s</text>
`, px, py, family, style.Height*float64(c.Height), c.palette.Hex(style.Color), esc.String()))
	return nil
}

func (c *SVGCanvas) Present() error {
	c.sb.WriteString("</svg>\n")
	c.frames++

	w, err := c.sink(c.frames)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(c.sb.String())); err != nil {
		w.Close()
		return fmt.Errorf("write svg frame %d: %w", c.frames, err)
	}
	return w.Close()
}

func (c *SVGCanvas) px(x, y float64) (float64, float64) {
	return x * float64(c.Width), float64(c.Height) - y*float64(c.Height)
}

func (c *SVGCanvas) points(x, y []float64) string {
	parts := make([]string, len(x))
	for i := range x {
		px, py := c.px(x[i], y[i])
		parts[i] = fmt.Sprintf("%.1f,%.1f", px, py)
	}
	return strings.Join(parts, " ")
}

func dashArray(t plot.LineType, width float64) string {
	switch t {
	case plot.LineDashed:
		return fmt.Sprintf(` stroke-dasharray="%.1f,%.1f"`, 6*width, 4*width)
	case plot.LineDotted:
		return fmt.Sprintf(` stroke-dasharray="%.1f,%.1f"`, width, 3*width)
	case plot.LineDashedDotted:
		return fmt.Sprintf(` stroke-dasharray="%.1f,%.1f,%.1f,%.1f"`, 6*width, 3*width, width, 3*width)
	}
	return ""
}

func markerRadius(size float64) float64 {
	return 2 * size
}

func markerPaint(t plot.MarkerType, col string) string {
	if t.Solid() {
		return fmt.Sprintf(`fill="%s"`, col)
	}
	return fmt.Sprintf(`fill="none" stroke="%s"`, col)
}

// arrowHead returns the two back corners of a head of the given length at
// (ex, ey), or nil for a zero-length arrow.
func arrowHead(sx, sy, ex, ey, length float64) []float64 {
	dx, dy := ex-sx, ey-sy
	n := math.Hypot(dx, dy)
	if n == 0 {
		return nil
	}
	if length > n {
		length = n
	}
	ux, uy := dx/n, dy/n
	bx, by := ex-ux*length, ey-uy*length
	w := length * 0.5
	return []float64{bx - uy*w, by + ux*w, bx + uy*w, by - ux*w}
}
