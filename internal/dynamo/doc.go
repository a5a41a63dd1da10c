// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental types for numerical simulation of
// first-order ordinary differential equations dy/dt = f(t, y):
//
//   - [State]: vector representing system state
//   - [DerivativeFunc]: the right-hand side f
//   - [System]: an f with a fixed state dimension
//   - [Hamiltonian]: systems that can report an energy
//
// Steppers live in the integrators package and the driving loop in sim.
//
// # Example
//
//	p := physics.NewDampedPendulum()
//	t, x := integrators.Advance(0, dynamo.State{1.9, 0}, 0.04, p.Derive)
package dynamo
