package plot

import (
	"errors"
	"fmt"
)

var ErrCoordinates = errors.New("plot: x and y lengths differ")

// Canvas is an immediate-mode drawing target in normalised device
// coordinates. Clear starts a frame and Present finishes it.
type Canvas interface {
	Clear() error
	Polyline(x, y []float64, a Attributes) error
	Polymarker(x, y []float64, a Attributes) error
	FillArea(x, y []float64, color int) error
	Arrow(x1, y1, x2, y2 float64, a Attributes) error
	Text(x, y float64, s string, style TextStyle) error
	Present() error
}

// Drawable is anything that can put itself on a Canvas.
type Drawable interface {
	Draw(c Canvas) error
}

type Polyline struct {
	X, Y  []float64
	Attrs Attributes
}

func (p Polyline) Draw(c Canvas) error {
	if err := checkCoords(p.X, p.Y); err != nil {
		return err
	}
	return c.Polyline(p.X, p.Y, p.Attrs)
}

type Polymarker struct {
	X, Y  []float64
	Attrs Attributes
}

func (p Polymarker) Draw(c Canvas) error {
	if err := checkCoords(p.X, p.Y); err != nil {
		return err
	}
	return c.Polymarker(p.X, p.Y, p.Attrs)
}

type FillArea struct {
	X, Y  []float64
	Color int
}

func (f FillArea) Draw(c Canvas) error {
	if err := checkCoords(f.X, f.Y); err != nil {
		return err
	}
	return c.FillArea(f.X, f.Y, f.Color)
}

type Arrow struct {
	X1, Y1, X2, Y2 float64
	Attrs          Attributes
}

func (a Arrow) Draw(c Canvas) error {
	return c.Arrow(a.X1, a.Y1, a.X2, a.Y2, a.Attrs)
}

type Text struct {
	X, Y  float64
	S     string
	Style TextStyle
}

func (t Text) Draw(c Canvas) error {
	return c.Text(t.X, t.Y, t.S, t.Style)
}

// Group draws its members in order and stops at the first error.
type Group []Drawable

func (g Group) Draw(c Canvas) error {
	for i, d := range g {
		if err := d.Draw(c); err != nil {
			return fmt.Errorf("drawable %d: %w", i, err)
		}
	}
	return nil
}

// Frame clears c, draws d and presents the result.
func Frame(c Canvas, d Drawable) error {
	if err := c.Clear(); err != nil {
		return err
	}
	if err := d.Draw(c); err != nil {
		return err
	}
	return c.Present()
}

func checkCoords(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d vs %d", ErrCoordinates, len(x), len(y))
	}
	return nil
}
