package integrators

import "github.com/san-kum/stepsim/internal/dynamo"

// Euler is the explicit first-order method. Kept as a baseline for the
// compare command.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f dynamo.DerivativeFunc, t float64, y dynamo.State, h float64) (float64, dynamo.State) {
	dy := f(t, y.Clone())
	result := make(dynamo.State, len(y))
	for i := range y {
		result[i] = y[i] + h*dy[i]
	}
	return t + h, result
}
