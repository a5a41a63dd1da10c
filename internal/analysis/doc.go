// Package analysis characterises recorded runs:
//
//   - [PowerSpectrum] and [DominantPeriod]: spectrum of a sampled quantity
//   - [PhasePortrait]: trajectory in a plane of two state components
//   - [PoincareSection]: points where a component rises through a level
//
// The small-amplitude pendulum period can be checked against
// physics.DampedPendulum.SmallAnglePeriod:
//
//	period, _ := analysis.DominantPeriod(theta, 0.04)
package analysis
