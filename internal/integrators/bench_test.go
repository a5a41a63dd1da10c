package integrators

import (
	"testing"

	"github.com/san-kum/stepsim/internal/dynamo"
)

func BenchmarkAdvance(b *testing.B) {
	x := dynamo.State{1.0, 0.0}
	t := 0.0

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t, x = Advance(t, x, 0.01, harmonic)
	}
}

func BenchmarkEuler(b *testing.B) {
	benchStepper(b, NewEuler())
}

func BenchmarkRK4(b *testing.B) {
	benchStepper(b, NewRK4())
}

func BenchmarkRK45(b *testing.B) {
	benchStepper(b, NewRK45())
}

func BenchmarkVerlet(b *testing.B) {
	benchStepper(b, NewVerlet())
}

func BenchmarkLeapfrog(b *testing.B) {
	benchStepper(b, NewLeapfrog())
}

func benchStepper(b *testing.B, integ dynamo.Integrator) {
	x := dynamo.State{1.0, 0.0}
	t := 0.0

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t, x = integ.Step(harmonic, t, x, 0.01)
	}
}

func chain(t float64, x dynamo.State) dynamo.State {
	dx := make(dynamo.State, 20)
	for i := 0; i < 10; i++ {
		dx[i] = x[10+i]
		dx[10+i] = -0.1 * x[i]
	}
	return dx
}

func BenchmarkRK4_Chain10(b *testing.B) {
	integ := NewRK4()
	x := make(dynamo.State, 20)
	for i := range x {
		x[i] = float64(i) * 0.1
	}
	t := 0.0

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t, x = integ.Step(chain, t, x, 0.001)
	}
}
