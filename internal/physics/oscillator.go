package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// Oscillator is the undamped linear oscillator d²x/dt² = -omega^2 x
// with state [x, v]. With Omega = 1 its period is 2*pi.
type Oscillator struct {
	Omega float64
}

func NewOscillator() *Oscillator {
	return &Oscillator{Omega: 1.0}
}

func (o *Oscillator) StateDim() int { return 2 }

func (o *Oscillator) Derive(t float64, x dynamo.State) dynamo.State {
	return dynamo.State{x[1], -o.Omega * o.Omega * x[0]}
}

func (o *Oscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[1]*x[1] + o.Omega*o.Omega*x[0]*x[0])
}

// Exact returns the closed-form state at time t for initial state x0 at 0.
func (o *Oscillator) Exact(t float64, x0 dynamo.State) dynamo.State {
	w := o.Omega
	c, s := math.Cos(w*t), math.Sin(w*t)
	return dynamo.State{
		x0[0]*c + x0[1]/w*s,
		-x0[0]*w*s + x0[1]*c,
	}
}

func (o *Oscillator) Period() float64 {
	return 2 * math.Pi / o.Omega
}

func (o *Oscillator) Quantities(t float64, x dynamo.State) []dynamo.Quantity {
	return []dynamo.Quantity{
		{Name: "x", Unit: "m", Value: x[0]},
		{Name: "v", Unit: "m/s", Value: x[1]},
		{Name: "energy", Value: o.Energy(x)},
	}
}

func (o *Oscillator) GetParams() map[string]float64 {
	return map[string]float64{"omega": o.Omega}
}

func (o *Oscillator) SetParam(name string, value float64) error {
	if name != "omega" {
		return fmt.Errorf("unknown param: %s", name)
	}
	if value <= 0 {
		return fmt.Errorf("omega %g: %w", value, dynamo.ErrParameterBounds)
	}
	o.Omega = value
	return nil
}
