package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/stepsim/internal/dynamo"
)

func TestPendulumEquilibrium(t *testing.T) {
	p := NewDampedPendulum()

	dx := p.Derive(0, dynamo.State{0, 0})

	if math.Abs(dx[0]) > 1e-10 {
		t.Errorf("expected zero velocity at equilibrium, got %f", dx[0])
	}
	if math.Abs(dx[1]) > 1e-10 {
		t.Errorf("expected zero acceleration at equilibrium, got %f", dx[1])
	}
}

func TestPendulumGravity(t *testing.T) {
	p := NewDampedPendulum()
	p.Damping = 0

	dx := p.Derive(0, dynamo.State{math.Pi / 2, 0})

	expected := -p.Gravity / p.Length
	if math.Abs(dx[1]-expected) > 1e-9 {
		t.Errorf("expected acceleration %f, got %f", expected, dx[1])
	}
}

func TestPendulumDamping(t *testing.T) {
	p := NewDampedPendulum()

	dx := p.Derive(0, dynamo.State{0, 2})
	if math.Abs(dx[1]-(-0.2)) > 1e-12 {
		t.Errorf("expected damping term -0.2, got %f", dx[1])
	}
}

func TestPendulumQuantities(t *testing.T) {
	p := NewDampedPendulum()
	theta := 110 * math.Pi / 180

	qs := p.Quantities(0, dynamo.State{theta, -1.5})

	tests := []struct {
		name string
		want float64
	}{
		{QuantityTheta, theta},
		{QuantityThetaDeg, 110},
		{QuantityOmega, -1.5},
		{QuantityAcceleration, math.Sqrt(2 * 9.8 * (1 - math.Cos(theta)))},
	}
	for _, tt := range tests {
		got, ok := dynamo.Lookup(qs, tt.name)
		if !ok {
			t.Errorf("quantity %s missing", tt.name)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s = %f, want %f", tt.name, got, tt.want)
		}
	}
}

func TestPendulumAccelerationAtRest(t *testing.T) {
	p := NewDampedPendulum()
	if a := p.Acceleration(0); a != 0 {
		t.Errorf("acceleration at the bottom = %f, want 0", a)
	}
	if a := p.Acceleration(math.Pi); math.Abs(a-math.Sqrt(4*9.8)) > 1e-12 {
		t.Errorf("acceleration at the top = %f", a)
	}
}

func TestPendulumEnergy(t *testing.T) {
	p := NewDampedPendulum()
	if e := p.Energy(dynamo.State{0, 0}); e != 0 {
		t.Errorf("energy at rest = %f", e)
	}
	e := p.Energy(dynamo.State{math.Pi / 2, 1})
	if math.Abs(e-(0.5+9.8)) > 1e-12 {
		t.Errorf("energy = %f, want %f", e, 0.5+9.8)
	}
}

func TestPendulumParams(t *testing.T) {
	p := NewDampedPendulum()

	if err := p.SetParam("damping", 0.3); err != nil {
		t.Fatal(err)
	}
	if p.GetParams()["damping"] != 0.3 {
		t.Error("damping not applied")
	}
	if err := p.SetParam("length", -1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := p.SetParam("mass", 1); err == nil {
		t.Error("expected error for unknown param")
	}
}

func TestOscillatorExact(t *testing.T) {
	o := NewOscillator()
	x0 := dynamo.State{1, 0}

	got := o.Exact(o.Period(), x0)
	if got.Sub(x0).Norm() > 1e-12 {
		t.Errorf("exact solution after one period = %v", got)
	}

	dx := o.Derive(0, dynamo.State{2, 3})
	if dx[0] != 3 || dx[1] != -2 {
		t.Errorf("derivative = %v", dx)
	}
}
