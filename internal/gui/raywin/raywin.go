// Package raywin shows a gui.Display in a raylib window.
package raywin

import (
	"context"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/stepsim/internal/gui"
	"github.com/san-kum/stepsim/internal/plot"
)

var (
	colBg     = rl.NewColor(250, 250, 250, 255)
	colStatus = rl.NewColor(90, 90, 90, 255)
)

type Window struct {
	Width, Height int
	Title         string
	FPS           int
}

func New(title string) *Window {
	return &Window{Width: 720, Height: 720, Title: title, FPS: 60}
}

// Show opens the window and redraws the latest frame until the window is
// closed or ctx is done.
func (w *Window) Show(ctx context.Context, d *gui.Display) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w.Width), int32(w.Height), w.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(w.FPS))

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		rec, _ := d.Snapshot()
		c := &canvas{vp: gui.Fit(rl.GetScreenWidth(), rl.GetScreenHeight()), d: d}

		rl.BeginDrawing()
		rl.ClearBackground(colBg)
		err := rec.Draw(c)
		rl.DrawText(d.Status(), 10, int32(rl.GetScreenHeight()-24), 16, colStatus)
		rl.EndDrawing()
		if err != nil {
			return err
		}
	}
	return nil
}

// canvas draws display list ops with raylib immediate-mode calls. Line
// types other than solid are drawn solid.
type canvas struct {
	vp gui.Viewport
	d  *gui.Display
}

func (c *canvas) point(x, y float64) rl.Vector2 {
	sx, sy := c.vp.ToScreen(x, y)
	return rl.NewVector2(float32(sx), float32(sy))
}

func (c *canvas) color(idx int) color.RGBA {
	return c.d.Color(idx)
}

func (c *canvas) Clear() error   { return nil }
func (c *canvas) Present() error { return nil }

func (c *canvas) Polyline(x, y []float64, a plot.Attributes) error {
	col := c.color(a.LineColor)
	for i := 1; i < len(x); i++ {
		rl.DrawLineEx(c.point(x[i-1], y[i-1]), c.point(x[i], y[i]), float32(a.LineWidth*2), col)
	}
	return nil
}

func (c *canvas) Polymarker(x, y []float64, a plot.Attributes) error {
	col := c.color(a.MarkerColor)
	r := float32(a.MarkerSize * 3)
	for i := range x {
		p := c.point(x[i], y[i])
		switch {
		case a.MarkerType == plot.MarkerDot:
			rl.DrawCircleV(p, 2, col)
		case a.MarkerType.Solid():
			rl.DrawCircleV(p, r, col)
		default:
			rl.DrawCircleLinesV(p, r, col)
		}
	}
	return nil
}

// FillArea fans triangles out from the first vertex, which covers the
// convex shapes the scenes use.
func (c *canvas) FillArea(x, y []float64, idx int) error {
	col := c.color(idx)
	for i := 2; i < len(x); i++ {
		triangle(c.point(x[0], y[0]), c.point(x[i-1], y[i-1]), c.point(x[i], y[i]), col)
	}
	return nil
}

func (c *canvas) Arrow(x1, y1, x2, y2 float64, a plot.Attributes) error {
	col := c.color(a.LineColor)
	start, end := c.point(x1, y1), c.point(x2, y2)
	rl.DrawLineEx(start, end, float32(a.LineWidth*2), col)

	dx, dy := float64(end.X-start.X), float64(end.Y-start.Y)
	n := math.Hypot(dx, dy)
	if n < 1 {
		return nil
	}
	head := math.Min(12, n/2)
	ux, uy := dx/n, dy/n
	bx, by := float64(end.X)-ux*head, float64(end.Y)-uy*head
	left := rl.NewVector2(float32(bx-uy*head/2), float32(by+ux*head/2))
	right := rl.NewVector2(float32(bx+uy*head/2), float32(by-ux*head/2))
	triangle(end, left, right, col)
	return nil
}

func (c *canvas) Text(x, y float64, s string, style plot.TextStyle) error {
	size := int32(math.Max(10, c.vp.Scale(style.Height)))
	p := c.point(x, y)
	rl.DrawText(plot.PlainText(s), int32(p.X), int32(p.Y)-size, size, c.color(style.Color))
	return nil
}

// triangle draws a filled triangle whatever the winding of its vertices.
// raylib only fills counter-clockwise triangles.
func triangle(a, b, c rl.Vector2, col color.RGBA) {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross > 0 {
		b, c = c, b
	}
	rl.DrawTriangle(a, b, c, col)
}
