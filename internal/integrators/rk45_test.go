package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/stepsim/internal/dynamo"
)

func oscillatorEnergy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	x := dynamo.State{1.0, 0.0}
	tm := 0.0

	for i := 0; i < 1000; i++ {
		tm, x = integrator.Step(harmonic, tm, x, 0.01)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
	if math.Abs(tm-10) > 1e-9 {
		t.Errorf("time = %v, want 10", tm)
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := oscillatorEnergy(x0)
	x := x0.Clone()
	tm := 0.0

	for i := 0; i < 10000; i++ {
		tm, x = integrator.Step(harmonic, tm, x, 0.01)
	}

	drift := math.Abs(oscillatorEnergy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	x0 := dynamo.State{1.0, 0.0}

	tm, x, next := integrator.StepAdaptive(harmonic, 0, x0, 0.1, 1e-8)

	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if tm != 0.1 {
		t.Errorf("time = %v, want 0.1", tm)
	}
	if next <= 0 {
		t.Errorf("StepAdaptive suggested invalid step: %f", next)
	}

	_, _, loose := integrator.StepAdaptive(harmonic, 0, x0, 0.1, 1e-2)
	if loose <= next {
		t.Errorf("looser tolerance should allow a larger step: %g <= %g", loose, next)
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk45 := NewRK45()
	x0 := dynamo.State{1.0, 0.0}

	x4 := x0.Clone()
	x45 := x0.Clone()
	t4, t45 := 0.0, 0.0
	dt := 0.1

	for i := 0; i < 100; i++ {
		t4, x4 = Advance(t4, x4, dt, harmonic)
		t45, x45 = rk45.Step(harmonic, t45, x45, dt)
	}

	t.Logf("RK4 final: [%.6f, %.6f]", x4[0], x4[1])
	t.Logf("RK45 final: [%.6f, %.6f]", x45[0], x45[1])

	if math.Abs(oscillatorEnergy(x45)-0.5) > math.Abs(oscillatorEnergy(x4)-0.5) {
		t.Error("RK45 drifted more than RK4")
	}
}

func TestLowOrderSteppers(t *testing.T) {
	tests := []struct {
		name  string
		integ dynamo.Integrator
		tol   float64
	}{
		{"euler", NewEuler(), 0.1},
		{"verlet", NewVerlet(), 1e-3},
		{"leapfrog", NewLeapfrog(), 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := dynamo.State{1.0, 0.0}
			orig := x.Clone()
			tm := 0.0
			for i := 0; i < 100; i++ {
				tm, x = tt.integ.Step(harmonic, tm, x, 0.01)
			}
			if !orig.Equal(dynamo.State{1.0, 0.0}) {
				t.Fatal("input state mutated")
			}
			if math.Abs(x[0]-math.Cos(1)) > tt.tol {
				t.Errorf("x(1) = %.6f, want %.6f", x[0], math.Cos(1))
			}
		})
	}
}
