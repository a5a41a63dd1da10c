package integrators

import "github.com/san-kum/stepsim/internal/dynamo"

// Verlet is velocity Verlet for states laid out as [q..., p...] where the
// derivative of each q is its p. Velocity-dependent forces such as damping
// are evaluated at the start-of-step velocity.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(f dynamo.DerivativeFunc, t float64, y dynamo.State, h float64) (float64, dynamo.State) {
	n := len(y)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dy := f(t, y.Clone())
	h2 := h * h

	for i := 0; i < half; i++ {
		result[i] = y[i] + y[half+i]*h + 0.5*dy[half+i]*h2
	}

	for i := 0; i < half; i++ {
		v.scratch[i] = result[i]
		v.scratch[half+i] = y[half+i]
	}
	dyNew := f(t+h, v.scratch)

	halfH := 0.5 * h
	for i := 0; i < half; i++ {
		result[half+i] = y[half+i] + (dy[half+i]+dyNew[half+i])*halfH
	}

	return t + h, result
}

// Leapfrog is the kick-drift-kick form of the same scheme.
type Leapfrog struct {
	scratch dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(f dynamo.DerivativeFunc, t float64, y dynamo.State, h float64) (float64, dynamo.State) {
	n := len(y)
	half := n / 2
	if len(l.scratch) != n {
		l.scratch = make(dynamo.State, n)
	}

	result := make(dynamo.State, n)
	dy := f(t, y.Clone())
	halfH := h * 0.5

	for i := 0; i < half; i++ {
		l.scratch[half+i] = y[half+i] + dy[half+i]*halfH
	}
	for i := 0; i < half; i++ {
		result[i] = y[i] + l.scratch[half+i]*h
		l.scratch[i] = result[i]
	}

	dyNew := f(t+h, l.scratch)
	for i := 0; i < half; i++ {
		result[half+i] = l.scratch[half+i] + dyNew[half+i]*halfH
	}

	return t + h, result
}
