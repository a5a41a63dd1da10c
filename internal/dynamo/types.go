package dynamo

import "math"

// State is the ordered vector of a system's variables. Its length is
// fixed for the lifetime of a simulation.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// Equal reports whether both states have the same length and bit-identical
// elements. NaN compares equal to NaN with the same bits.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if math.Float64bits(s[i]) != math.Float64bits(other[i]) {
			return false
		}
	}
	return true
}

// DerivativeFunc is the right-hand side of dy/dt = f(t, y). It must be
// deterministic, free of side effects and return a vector of len(y).
type DerivativeFunc func(t float64, y State) State

// System is an ODE system with a fixed state dimension.
type System interface {
	Derive(t float64, y State) State
	StateDim() int
}

// Func adapts a System to a DerivativeFunc.
func Func(sys System) DerivativeFunc {
	return sys.Derive
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Integrator advances y by one step h and returns the new time and a new
// state. Implementations never write to y.
type Integrator interface {
	Step(f DerivativeFunc, t float64, y State, h float64) (float64, State)
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(f DerivativeFunc, t float64, y State, h, tol float64) (float64, State, float64)
}

// Quantity is a named scalar derived from a state for display.
type Quantity struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol,omitempty"`
	Unit   string  `json:"unit,omitempty"`
	Value  float64 `json:"value"`
}

// Describer unpacks a state into named physical quantities plus any
// derived display values. It only sees the state after a step.
type Describer interface {
	Quantities(t float64, x State) []Quantity
}

// Lookup returns the value of the quantity called name.
func Lookup(qs []Quantity, name string) (float64, bool) {
	for _, q := range qs {
		if q.Name == name {
			return q.Value, true
		}
	}
	return 0, false
}
