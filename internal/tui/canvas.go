package tui

import (
	"math"
	"strings"

	"github.com/san-kum/stepsim/internal/plot"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Label is a text drawable kept aside for the side panel.
type Label struct {
	X, Y  float64
	S     string
	Style plot.TextStyle
}

// Braille is a monochrome plot.Canvas on a grid of braille cells. Each
// cell holds 2x4 dots, so the dot grid is (Width*2) x (Height*4).
type Braille struct {
	Width, Height int
	Grid          [][]rune
	Labels        []Label
}

func NewBraille(w, h int) *Braille {
	c := &Braille{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y) in dot coordinates, origin top left.
func (c *Braille) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Braille) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Braille) Clear() error {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	c.Labels = c.Labels[:0]
	return nil
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Braille) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// dot maps normalised device coordinates onto the dot grid.
func (c *Braille) dot(x, y float64) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	return int(math.Round(x * w)), int(math.Round((1 - y) * h))
}

func (c *Braille) Polyline(x, y []float64, a plot.Attributes) error {
	for i := 1; i < len(x); i++ {
		x0, y0 := c.dot(x[i-1], y[i-1])
		x1, y1 := c.dot(x[i], y[i])
		c.DrawLine(x0, y0, x1, y1)
	}
	if len(x) == 1 {
		c.Set(c.dot(x[0], y[0]))
	}
	return nil
}

func (c *Braille) Polymarker(x, y []float64, a plot.Attributes) error {
	r := int(a.MarkerSize / 2)
	for i := range x {
		cx, cy := c.dot(x[i], y[i])
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy <= r*r {
					c.Set(cx+dx, cy+dy)
				}
			}
		}
	}
	return nil
}

// FillArea sets every dot whose centre lies inside the polygon (even-odd
// rule) and then traces the outline.
func (c *Braille) FillArea(x, y []float64, color int) error {
	if len(x) < 3 {
		return c.Polyline(x, y, plot.Attributes{})
	}
	px := make([]float64, len(x))
	py := make([]float64, len(y))
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for i := range x {
		dx, dy := c.dot(x[i], y[i])
		px[i], py[i] = float64(dx), float64(dy)
		minX, maxX = min(minX, dx), max(maxX, dx)
		minY, maxY = min(minY, dy), max(maxY, dy)
	}

	for gy := minY; gy <= maxY; gy++ {
		for gx := minX; gx <= maxX; gx++ {
			if insidePolygon(float64(gx), float64(gy), px, py) {
				c.Set(gx, gy)
			}
		}
	}
	closed := append(append([]float64(nil), x...), x[0])
	closedY := append(append([]float64(nil), y...), y[0])
	return c.Polyline(closed, closedY, plot.Attributes{})
}

func (c *Braille) Arrow(x1, y1, x2, y2 float64, a plot.Attributes) error {
	sx, sy := c.dot(x1, y1)
	ex, ey := c.dot(x2, y2)
	c.DrawLine(sx, sy, ex, ey)

	dx, dy := float64(ex-sx), float64(ey-sy)
	n := math.Hypot(dx, dy)
	if n < 2 {
		return nil
	}
	const headLen, spread = 3.0, 0.5
	ang := math.Atan2(dy, dx)
	for _, s := range []float64{-spread, spread} {
		hx := ex - int(math.Round(headLen*math.Cos(ang+s)))
		hy := ey - int(math.Round(headLen*math.Sin(ang+s)))
		c.DrawLine(ex, ey, hx, hy)
	}
	return nil
}

func (c *Braille) Text(x, y float64, s string, style plot.TextStyle) error {
	c.Labels = append(c.Labels, Label{X: x, Y: y, S: s, Style: style})
	return nil
}

func (c *Braille) Present() error { return nil }

func (c *Braille) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func insidePolygon(x, y float64, px, py []float64) bool {
	in := false
	j := len(px) - 1
	for i := range px {
		if (py[i] > y) != (py[j] > y) &&
			x < (px[j]-px[i])*(y-py[i])/(py[j]-py[i])+px[i] {
			in = !in
		}
		j = i
	}
	return in
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
