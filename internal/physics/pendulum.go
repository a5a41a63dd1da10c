package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
)

const (
	DefaultGravity = 9.8
	DefaultLength  = 1.0
	DefaultDamping = 0.1
)

// Quantity names reported by DampedPendulum.
const (
	QuantityTheta        = "theta"
	QuantityThetaDeg     = "theta_deg"
	QuantityOmega        = "omega"
	QuantityAcceleration = "acceleration"
)

// DampedPendulum is a point mass on a rigid massless rod with linear
// damping. State is [theta, omega] with theta measured from the downward
// vertical.
//
//	dtheta/dt = omega
//	domega/dt = -gamma*omega - g/L*sin(theta)
type DampedPendulum struct {
	Gravity float64
	Length  float64
	Damping float64
}

func NewDampedPendulum() *DampedPendulum {
	return &DampedPendulum{
		Gravity: DefaultGravity,
		Length:  DefaultLength,
		Damping: DefaultDamping,
	}
}

func (p *DampedPendulum) StateDim() int {
	return 2
}

func (p *DampedPendulum) Derive(t float64, x dynamo.State) dynamo.State {
	theta := x[0]
	omega := x[1]
	alpha := -p.Damping*omega - p.Gravity/p.Length*math.Sin(theta)
	return dynamo.State{omega, alpha}
}

// Acceleration is the display quantity y_A = sqrt(2 g L (1 - cos theta)),
// the speed the bob would reach falling from theta to the bottom.
func (p *DampedPendulum) Acceleration(theta float64) float64 {
	return math.Sqrt(2 * p.Gravity * p.Length * (1 - math.Cos(theta)))
}

// Energy is the mechanical energy per unit mass.
func (p *DampedPendulum) Energy(x dynamo.State) float64 {
	v := p.Length * x[1]
	ke := 0.5 * v * v
	pe := p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	return ke + pe
}

func (p *DampedPendulum) Quantities(t float64, x dynamo.State) []dynamo.Quantity {
	theta, omega := x[0], x[1]
	return []dynamo.Quantity{
		{Name: QuantityTheta, Symbol: "\\theta", Unit: "rad", Value: theta},
		{Name: QuantityThetaDeg, Symbol: "\\theta", Unit: "deg", Value: theta / math.Pi * 180},
		{Name: QuantityOmega, Symbol: "\\omega", Unit: "rad/s", Value: omega},
		{Name: QuantityAcceleration, Symbol: "y_{A}", Value: p.Acceleration(theta)},
	}
}

// SmallAnglePeriod is 2*pi*sqrt(L/g), the undamped small-amplitude period.
func (p *DampedPendulum) SmallAnglePeriod() float64 {
	return 2 * math.Pi * math.Sqrt(p.Length/p.Gravity)
}

func (p *DampedPendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
	}
}

func (p *DampedPendulum) SetParam(name string, value float64) error {
	switch name {
	case "length":
		if value <= 0 {
			return fmt.Errorf("length %g: %w", value, dynamo.ErrParameterBounds)
		}
		p.Length = value
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
