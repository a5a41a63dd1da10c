// Package ebitenwin shows a gui.Display in an ebiten window.
package ebitenwin

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/stepsim/internal/gui"
	"github.com/san-kum/stepsim/internal/plot"
)

var colBg = color.RGBA{250, 250, 250, 255}

// debugGlyphHeight is the height of ebitenutil's built-in font.
const debugGlyphHeight = 16

type Window struct {
	Width, Height int
	Title         string
	TPS           int
}

func New(title string) *Window {
	return &Window{Width: 720, Height: 720, Title: title, TPS: 60}
}

func (w *Window) Show(ctx context.Context, d *gui.Display) error {
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.TPS)

	g := &game{ctx: ctx, d: d, w: w.Width, h: w.Height}
	return ebiten.RunGame(g)
}

type game struct {
	ctx  context.Context
	d    *gui.Display
	w, h int
	err  error
}

func (g *game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colBg)
	rec, _ := g.d.Snapshot()
	c := &canvas{dst: screen, vp: gui.Fit(g.w, g.h), d: g.d}
	if err := rec.Draw(c); err != nil {
		g.err = err
	}
	ebitenutil.DebugPrintAt(screen, g.d.Status(), 10, g.h-24)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.w, g.h = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

type canvas struct {
	dst *ebiten.Image
	vp  gui.Viewport
	d   *gui.Display
}

func (c *canvas) point(x, y float64) (float32, float32) {
	sx, sy := c.vp.ToScreen(x, y)
	return float32(sx), float32(sy)
}

func (c *canvas) Clear() error   { return nil }
func (c *canvas) Present() error { return nil }

func (c *canvas) Polyline(x, y []float64, a plot.Attributes) error {
	col := c.d.Color(a.LineColor)
	for i := 1; i < len(x); i++ {
		x0, y0 := c.point(x[i-1], y[i-1])
		x1, y1 := c.point(x[i], y[i])
		vector.StrokeLine(c.dst, x0, y0, x1, y1, float32(a.LineWidth*2), col, true)
	}
	return nil
}

func (c *canvas) Polymarker(x, y []float64, a plot.Attributes) error {
	col := c.d.Color(a.MarkerColor)
	r := float32(a.MarkerSize * 3)
	for i := range x {
		px, py := c.point(x[i], y[i])
		switch {
		case a.MarkerType == plot.MarkerDot:
			vector.DrawFilledCircle(c.dst, px, py, 2, col, true)
		case a.MarkerType.Solid():
			vector.DrawFilledCircle(c.dst, px, py, r, col, true)
		default:
			vector.StrokeCircle(c.dst, px, py, r, 1, col, true)
		}
	}
	return nil
}

func (c *canvas) FillArea(x, y []float64, idx int) error {
	if len(x) < 3 {
		return nil
	}
	var path vector.Path
	px, py := c.point(x[0], y[0])
	path.MoveTo(px, py)
	for i := 1; i < len(x); i++ {
		px, py = c.point(x[i], y[i])
		path.LineTo(px, py)
	}
	path.Close()
	c.fill(&path, c.d.Color(idx))
	return nil
}

func (c *canvas) Arrow(x1, y1, x2, y2 float64, a plot.Attributes) error {
	col := c.d.Color(a.LineColor)
	sx, sy := c.point(x1, y1)
	ex, ey := c.point(x2, y2)
	vector.StrokeLine(c.dst, sx, sy, ex, ey, float32(a.LineWidth*2), col, true)

	dx, dy := float64(ex-sx), float64(ey-sy)
	n := math.Hypot(dx, dy)
	if n < 1 {
		return nil
	}
	head := math.Min(12, n/2)
	ux, uy := dx/n, dy/n
	bx, by := float64(ex)-ux*head, float64(ey)-uy*head

	var path vector.Path
	path.MoveTo(ex, ey)
	path.LineTo(float32(bx-uy*head/2), float32(by+ux*head/2))
	path.LineTo(float32(bx+uy*head/2), float32(by-ux*head/2))
	path.Close()
	c.fill(&path, col)
	return nil
}

// Text uses the fixed debug font, so style.Height only places the
// baseline.
func (c *canvas) Text(x, y float64, s string, style plot.TextStyle) error {
	px, py := c.point(x, y)
	ebitenutil.DebugPrintAt(c.dst, plot.PlainText(s), int(px), int(py)-debugGlyphHeight)
	return nil
}

func (c *canvas) fill(path *vector.Path, col color.RGBA) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := col.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true, FillRule: ebiten.FillRuleNonZero}
	c.dst.DrawTriangles(vs, is, whiteSubImage, op)
}
