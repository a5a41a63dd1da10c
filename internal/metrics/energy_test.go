package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/integrators"
	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/sim"
)

func TestEnergyValue(t *testing.T) {
	p := physics.NewDampedPendulum()
	p.Gravity = 9.81
	m := NewEnergy(p)

	theta := math.Pi / 4
	omega := 0.0
	x := dynamo.State{theta, omega}

	m.Observe(sim.Frame{State: x})
	e1 := m.Value()

	m.Reset()

	ke := 0.5 * omega * omega
	pe := 9.81 * (1 - math.Cos(theta))
	expected := ke + pe

	m.Observe(sim.Frame{State: x})
	e2 := m.Value()

	if math.Abs(e1-expected) > 1e-6 {
		t.Errorf("expected energy %f, got %f", expected, e1)
	}
	if math.Abs(e2-expected) > 1e-6 {
		t.Errorf("expected energy %f after reset, got %f", expected, e2)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(physics.NewDampedPendulum())

	m.Observe(sim.Frame{State: dynamo.State{1.0, 1.0}})
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDriftUndamped(t *testing.T) {
	p := physics.NewDampedPendulum()
	p.Damping = 0
	x0 := dynamo.State{110 * math.Pi / 180, 0}

	drift := NewEnergyDrift(p)
	drift.SetReference(x0)

	s := sim.New(p, integrators.NewRK4(), nil)
	s.AddMetric(drift)
	result, err := s.Run(context.Background(), x0, sim.Config{Duration: 30, Step: 0.04})
	if err != nil {
		t.Fatal(err)
	}

	if v := result.Metrics["energy_drift"]; v <= 0 || v > 1e-4 {
		t.Errorf("energy drift = %.3e, want within (0, 1e-4]", v)
	}
}

func TestEnergyDriftDamped(t *testing.T) {
	p := physics.NewDampedPendulum()
	x0 := dynamo.State{110 * math.Pi / 180, 0}

	drift := NewEnergyDrift(p)
	drift.SetReference(x0)
	s := sim.New(p, integrators.NewRK4(), nil)
	s.AddMetric(drift)
	if _, err := s.Run(context.Background(), x0, sim.Config{Duration: 30, Step: 0.04}); err != nil {
		t.Fatal(err)
	}

	if drift.Value() < 0.9 {
		t.Errorf("damped pendulum kept too much energy: drift %.3f", drift.Value())
	}
	if drift.Current() >= p.Energy(x0) {
		t.Error("final energy should be below the initial energy")
	}
}

type nonHamiltonian struct{}

func (nonHamiltonian) Derive(t float64, x dynamo.State) dynamo.State { return dynamo.State{0} }
func (nonHamiltonian) StateDim() int                                 { return 1 }

func TestEnergyDriftIgnoresNonHamiltonian(t *testing.T) {
	d := NewEnergyDrift(nonHamiltonian{})
	d.Observe(sim.Frame{State: dynamo.State{5}})
	if d.Value() != 0 {
		t.Errorf("drift = %v, want 0", d.Value())
	}
}
