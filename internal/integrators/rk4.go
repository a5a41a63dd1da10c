package integrators

import "github.com/san-kum/stepsim/internal/dynamo"

// Advance performs one classical Runge-Kutta step of size h from (t, y):
//
//	k1 = h * f(t,       y)
//	k2 = h * f(t + h/2, y + k1/2)
//	k3 = h * f(t + h/2, y + k2/2)
//	k4 = h * f(t + h,   y + k3)
//	y' = y + (k1 + 2*k2 + 2*k3 + k4) / 6
//
// f is called exactly four times, in that order, even when h is zero. y is
// never written and every vector handed to f is freshly allocated. Non-finite
// values produced by f propagate into the result unchecked. A negative h
// integrates backward.
func Advance(t float64, y dynamo.State, h float64, f dynamo.DerivativeFunc) (float64, dynamo.State) {
	n := len(y)
	half := h / 2

	k1 := scaled(f(t, y.Clone()), h, n)

	y2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y2[i] = y[i] + k1[i]/2
	}
	k2 := scaled(f(t+half, y2), h, n)

	y3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y3[i] = y[i] + k2[i]/2
	}
	k3 := scaled(f(t+half, y3), h, n)

	y4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y4[i] = y[i] + k3[i]
	}
	k4 := scaled(f(t+h, y4), h, n)

	next := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		next[i] = y[i] + (k1[i]+2*k2[i]+2*k3[i]+k4[i])/6
	}
	return t + h, next
}

func scaled(d dynamo.State, h float64, n int) dynamo.State {
	k := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		k[i] = h * d[i]
	}
	return k
}

// RK4 is the buffered form of Advance for tight loops. It keeps its stage
// vectors between calls, so f receives a scratch slice that is only valid
// for the duration of the call. The returned state is always new.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(f dynamo.DerivativeFunc, t float64, y dynamo.State, h float64) (float64, dynamo.State) {
	n := len(y)
	r.ensureScratch(n)
	half := h / 2

	copy(r.scratch, y)
	scaleInto(r.k1, f(t, r.scratch), h)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + r.k1[i]/2
	}
	scaleInto(r.k2, f(t+half, r.scratch), h)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + r.k2[i]/2
	}
	scaleInto(r.k3, f(t+half, r.scratch), h)

	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + r.k3[i]
	}
	scaleInto(r.k4, f(t+h, r.scratch), h)

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		result[i] = y[i] + (r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])/6
	}
	return t + h, result
}

func scaleInto(dst, d dynamo.State, h float64) {
	for i := range dst {
		dst[i] = h * d[i]
	}
}
