package render

import (
	"fmt"
	"math"

	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/plot"
	"github.com/san-kum/stepsim/internal/sim"
)

// Pendulum layout in normalised device coordinates.
const (
	PivotX    = 0.5
	PivotY    = 0.8
	RodLength = 0.4
	// ArrowScale converts omega and y_A into arrow lengths.
	ArrowScale = 0.05

	BobColor      = 86
	VelocityColor = 4
	AccelColor    = 2
)

// Pendulum draws a damped pendulum frame: pivot, rod, bob, the angular
// velocity and y_A arrows, the equations and the running values.
type Pendulum struct {
	Title    string
	rod      plot.Attributes
	bob      plot.Attributes
	velocity plot.Attributes
	accel    plot.Attributes
}

func NewPendulum(alloc *plot.ColorIndex) *Pendulum {
	return &Pendulum{
		Title: "Damped Pendulum",
		rod:   plot.NewAttributes(alloc, plot.WithLineColor(1)),
		bob: plot.NewAttributes(alloc,
			plot.WithMarkerType(plot.MarkerSolidCircle),
			plot.WithMarkerColor(BobColor),
			plot.WithMarkerSize(5)),
		velocity: plot.NewAttributes(alloc, plot.WithLineColor(VelocityColor)),
		accel:    plot.NewAttributes(alloc, plot.WithLineColor(AccelColor)),
	}
}

// BobPosition returns the bob centre for angle theta.
func BobPosition(theta float64) (x, y float64) {
	return PivotX + math.Sin(theta)*RodLength, PivotY - math.Cos(theta)*RodLength
}

// Scene builds the drawing for one frame. theta, omega and y_A come from
// the frame quantities, falling back to the first two state components.
func (p *Pendulum) Scene(f sim.Frame) plot.Drawable {
	theta := quantityOr(f, physics.QuantityTheta, 0)
	omega := quantityOr(f, physics.QuantityOmega, 1)
	accel, ok := f.Quantity(physics.QuantityAcceleration)
	if !ok {
		accel = 0
	}

	bx, by := BobPosition(theta)
	v := ArrowScale * omega
	a := ArrowScale * accel

	heading := plot.TextStyle{Color: 1, Height: 0.024}
	label := plot.TextStyle{Color: 1, Height: 0.020}
	eq := heading
	eq.Math = true

	return plot.Group{
		plot.FillArea{
			X:     []float64{0.46, 0.54, 0.54, 0.46},
			Y:     []float64{0.79, 0.79, 0.81, 0.81},
			Color: 1,
		},
		plot.Polyline{X: []float64{PivotX, bx}, Y: []float64{PivotY, by}, Attrs: p.rod},
		plot.Polymarker{X: []float64{bx}, Y: []float64{by}, Attrs: p.bob},
		plot.Arrow{X1: bx, Y1: by, X2: bx + v*math.Cos(theta), Y2: by + v*math.Sin(theta), Attrs: p.velocity},
		plot.Arrow{X1: bx, Y1: by, X2: bx + a*math.Sin(theta), Y2: by + a*math.Cos(theta), Attrs: p.accel},

		plot.Text{X: 0.05, Y: 0.96, S: p.Title, Style: heading},
		plot.Text{X: 0.05, Y: 0.9, S: `\omega=\dot{\theta}`, Style: eq},
		plot.Text{X: 0.05, Y: 0.83, S: `\dot{\omega}=-\gamma\omega-\frac{g}{l}sin(\theta)`, Style: eq},

		plot.Text{X: 0.05, Y: 0.20, S: fmt.Sprintf("t:%7.2f", f.Time), Style: label},
		plot.Text{X: 0.05, Y: 0.16, S: fmt.Sprintf(`\theta:%7.2f`, theta/math.Pi*180), Style: label},
		plot.Text{X: 0.05, Y: 0.12, S: fmt.Sprintf(`\omega:%7.2f`, omega), Style: withColor(label, VelocityColor)},
		plot.Text{X: 0.05, Y: 0.08, S: fmt.Sprintf("y_{A}:%6.2f", accel), Style: withColor(label, AccelColor)},
	}
}

func quantityOr(f sim.Frame, name string, idx int) float64 {
	if v, ok := f.Quantity(name); ok {
		return v
	}
	if idx < len(f.State) {
		return f.State[idx]
	}
	return 0
}

func withColor(s plot.TextStyle, c int) plot.TextStyle {
	s.Color = c
	return s
}
