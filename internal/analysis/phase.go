package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/stepsim/internal/plot"
	"github.com/san-kum/stepsim/internal/sim"
)

type Point struct{ X, Y float64 }

// Portrait is a trajectory projected onto two state components.
type Portrait struct {
	XIndex, YIndex int
	Points         []Point
}

// PhasePortrait projects recorded frames onto components xIdx and yIdx.
func PhasePortrait(frames []sim.Frame, xIdx, yIdx int) (*Portrait, error) {
	p := &Portrait{XIndex: xIdx, YIndex: yIdx, Points: make([]Point, 0, len(frames))}
	for _, f := range frames {
		if xIdx >= len(f.State) || yIdx >= len(f.State) {
			return nil, fmt.Errorf("phase portrait of components %d,%d of a %d-dimensional state", xIdx, yIdx, len(f.State))
		}
		p.Points = append(p.Points, Point{f.State[xIdx], f.State[yIdx]})
	}
	return p, nil
}

// PoincareSection keeps the (recordX, recordY) point, interpolated between
// frames, wherever component crossIdx rises through threshold.
func PoincareSection(frames []sim.Frame, crossIdx int, threshold float64, recordX, recordY int) *Portrait {
	section := &Portrait{XIndex: recordX, YIndex: recordY}
	for i := 1; i < len(frames); i++ {
		prev, cur := frames[i-1].State, frames[i].State
		if prev[crossIdx] < threshold && cur[crossIdx] >= threshold {
			frac := (threshold - prev[crossIdx]) / (cur[crossIdx] - prev[crossIdx])
			section.Points = append(section.Points, Point{
				X: prev[recordX] + frac*(cur[recordX]-prev[recordX]),
				Y: prev[recordY] + frac*(cur[recordY]-prev[recordY]),
			})
		}
	}
	return section
}

type bounds struct{ minX, maxX, minY, maxY float64 }

// bounds returns the extent of the points padded by 10% on every side.
func (p *Portrait) bounds() bounds {
	b := bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, pt := range p.Points {
		b.minX, b.maxX = math.Min(b.minX, pt.X), math.Max(b.maxX, pt.X)
		b.minY, b.maxY = math.Min(b.minY, pt.Y), math.Max(b.maxY, pt.Y)
	}
	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

// ASCII plots the points on a width x height character grid with the axes
// drawn where they are in view.
func (p *Portrait) ASCII(width, height int) string {
	if len(p.Points) == 0 {
		return ""
	}
	b := p.bounds()
	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - b.minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-b.minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if b.minX <= 0 && b.maxX >= 0 {
		col := int((0 - b.minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if b.minY <= 0 && b.maxY >= 0 {
		row := height - 1 - int((0-b.minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Drawable scales the trajectory into the unit square as one polyline so
// any plot.Canvas can show it.
func (p *Portrait) Drawable(attrs plot.Attributes) plot.Drawable {
	if len(p.Points) == 0 {
		return plot.Group{}
	}
	b := p.bounds()
	line := plot.Polyline{
		X:     make([]float64, len(p.Points)),
		Y:     make([]float64, len(p.Points)),
		Attrs: attrs,
	}
	for i, pt := range p.Points {
		line.X[i] = (pt.X - b.minX) / (b.maxX - b.minX)
		line.Y[i] = (pt.Y - b.minY) / (b.maxY - b.minY)
	}
	return line
}
