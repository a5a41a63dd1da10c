package render

import (
	"bufio"
	"fmt"
	"image/color"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/stepsim/internal/plot"
)

// VGCanvas draws through gonum/plot's vg layer and writes each presented
// frame as a PNG.
type VGCanvas struct {
	Width, Height vg.Length
	DPI           int

	palette *plot.Palette
	sink    FrameSink
	img     *vgimg.Canvas
	dc      draw.Canvas
	frames  int
}

func NewVGCanvas(width, height vg.Length, sink FrameSink) *VGCanvas {
	return &VGCanvas{
		Width:   width,
		Height:  height,
		DPI:     96,
		palette: plot.DefaultPalette(),
		sink:    sink,
	}
}

func (c *VGCanvas) Frames() int { return c.frames }

func (c *VGCanvas) Clear() error {
	c.img = vgimg.NewWith(vgimg.UseWH(c.Width, c.Height), vgimg.UseDPI(c.DPI))
	c.dc = draw.New(c.img)
	r := c.dc.Rectangle
	c.dc.FillPolygon(color.White, []vg.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	})
	return nil
}

func (c *VGCanvas) ensure() {
	if c.img == nil {
		c.Clear()
	}
}

func (c *VGCanvas) pt(x, y float64) vg.Point {
	r := c.dc.Rectangle
	size := r.Size()
	return vg.Point{
		X: r.Min.X + vg.Length(x)*size.X,
		Y: r.Min.Y + vg.Length(y)*size.Y,
	}
}

func (c *VGCanvas) pts(x, y []float64) []vg.Point {
	out := make([]vg.Point, len(x))
	for i := range x {
		out[i] = c.pt(x[i], y[i])
	}
	return out
}

func (c *VGCanvas) lineStyle(a plot.Attributes) draw.LineStyle {
	sty := draw.LineStyle{
		Color: c.palette.RGBA(a.LineColor),
		Width: vg.Points(a.LineWidth),
	}
	switch a.LineType {
	case plot.LineDashed:
		sty.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	case plot.LineDotted:
		sty.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	case plot.LineDashedDotted:
		sty.Dashes = []vg.Length{vg.Points(6), vg.Points(3), vg.Points(1), vg.Points(3)}
	}
	return sty
}

func (c *VGCanvas) Polyline(x, y []float64, a plot.Attributes) error {
	c.ensure()
	c.dc.StrokeLines(c.lineStyle(a), c.pts(x, y))
	return nil
}

func (c *VGCanvas) Polymarker(x, y []float64, a plot.Attributes) error {
	c.ensure()
	sty := draw.GlyphStyle{
		Color:  c.palette.RGBA(a.MarkerColor),
		Radius: vg.Points(markerRadius(a.MarkerSize)),
		Shape:  glyph(a.MarkerType),
	}
	for _, p := range c.pts(x, y) {
		c.dc.DrawGlyph(sty, p)
	}
	return nil
}

func (c *VGCanvas) FillArea(x, y []float64, col int) error {
	c.ensure()
	c.dc.FillPolygon(c.palette.RGBA(col), c.pts(x, y))
	return nil
}

func (c *VGCanvas) Arrow(x1, y1, x2, y2 float64, a plot.Attributes) error {
	c.ensure()
	s, e := c.pt(x1, y1), c.pt(x2, y2)
	c.dc.StrokeLine2(c.lineStyle(a), s.X, s.Y, e.X, e.Y)

	length := 0.02 * float64(c.dc.Rectangle.Size().Y)
	head := arrowHead(float64(s.X), float64(s.Y), float64(e.X), float64(e.Y), length)
	if head != nil {
		c.dc.FillPolygon(c.palette.RGBA(a.LineColor), []vg.Point{
			e,
			{X: vg.Length(head[0]), Y: vg.Length(head[1])},
			{X: vg.Length(head[2]), Y: vg.Length(head[3])},
		})
	}
	return nil
}

func (c *VGCanvas) Text(x, y float64, s string, style plot.TextStyle) error {
	c.ensure()
	fnt := gplot.DefaultFont
	if !style.Math {
		fnt.Variant = "Sans"
	}
	fnt.Size = vg.Length(style.Height) * c.dc.Rectangle.Size().Y
	c.dc.FillText(text.Style{
		Color:   c.palette.RGBA(style.Color),
		Font:    fnt,
		Handler: gplot.DefaultTextHandler,
	}, c.pt(x, y), s)
	return nil
}

func (c *VGCanvas) Present() error {
	c.ensure()
	c.frames++

	w, err := c.sink(c.frames)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	pngc := vgimg.PngCanvas{Canvas: c.img}
	if _, err := pngc.WriteTo(bw); err != nil {
		w.Close()
		return fmt.Errorf("write png frame %d: %w", c.frames, err)
	}
	if err := bw.Flush(); err != nil {
		w.Close()
		return fmt.Errorf("write png frame %d: %w", c.frames, err)
	}
	return w.Close()
}

func glyph(t plot.MarkerType) draw.GlyphDrawer {
	switch t {
	case plot.MarkerSolidCircle, plot.MarkerDot:
		return draw.CircleGlyph{}
	case plot.MarkerCircle:
		return draw.RingGlyph{}
	case plot.MarkerPlus:
		return draw.PlusGlyph{}
	case plot.MarkerDiagonalCross, plot.MarkerAsterisk:
		return draw.CrossGlyph{}
	case plot.MarkerSquare:
		return draw.SquareGlyph{}
	case plot.MarkerSolidSquare:
		return draw.BoxGlyph{}
	case plot.MarkerTriangleUp:
		return draw.TriangleGlyph{}
	}
	return draw.CircleGlyph{}
}
