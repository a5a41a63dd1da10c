package integrators

import (
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Step takes one fixed step using the fifth-order Dormand-Prince solution.
func (r *RK45) Step(f dynamo.DerivativeFunc, t float64, y dynamo.State, h float64) (float64, dynamo.State) {
	next, _ := r.solve(f, t, y, h)
	return t + h, next
}

// StepAdaptive takes one step of size h and suggests the size of the next
// one from the embedded fourth-order error estimate and tol.
func (r *RK45) StepAdaptive(f dynamo.DerivativeFunc, t float64, y dynamo.State, h, tol float64) (float64, dynamo.State, float64) {
	next, errMax := r.solve(f, t, y, h)

	errRatio := errMax / tol

	var hNew float64
	switch {
	case errRatio > 1:
		hNew = h * math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
	case errRatio > 0:
		hNew = h * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	default:
		hNew = h * r.maxScale
	}

	return t + h, next, hNew
}

func (r *RK45) solve(f dynamo.DerivativeFunc, t float64, y dynamo.State, h float64) (dynamo.State, float64) {
	n := len(y)

	k1 := f(t, y.Clone())

	y2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y2[i] = y[i] + h*b21*k1[i]
	}
	k2 := f(t+a2*h, y2)

	y3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y3[i] = y[i] + h*(b31*k1[i]+b32*k2[i])
	}
	k3 := f(t+a3*h, y3)

	y4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y4[i] = y[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := f(t+a4*h, y4)

	y5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y5[i] = y[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := f(t+a5*h, y5)

	y6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y6[i] = y[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := f(t+h, y6)

	next := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		next[i] = y[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := f(t+h, next.Clone())

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := math.Abs(y[i]) + math.Abs(h*k1[i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}
	return next, errMax
}
