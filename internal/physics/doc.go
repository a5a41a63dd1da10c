// Package physics provides the reference systems driven by the stepper.
//
// Each model implements [dynamo.System] and [dynamo.Describer]:
//
//   - [DampedPendulum]: rigid pendulum with linear damping
//   - [Oscillator]: linear oscillator with a closed-form solution
//
// Both also implement [dynamo.Hamiltonian] and [dynamo.Configurable].
//
// # Energy
//
//	p := physics.NewDampedPendulum()
//	e := p.Energy(dynamo.State{theta, omega})
package physics
