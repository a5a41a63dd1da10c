package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/stepsim/internal/dynamo"
)

// Frame is one completed step as handed to observers and the surface.
// Nothing in the loop writes to State after the frame is built.
type Frame struct {
	Step       int               `json:"step"`
	Time       float64           `json:"time"`
	State      dynamo.State      `json:"state"`
	Quantities []dynamo.Quantity `json:"quantities,omitempty"`
}

// Quantity returns the value of a named quantity of the frame.
func (f Frame) Quantity(name string) (float64, bool) {
	return dynamo.Lookup(f.Quantities, name)
}

// Surface consumes every completed step. Render is synchronous and must
// not modify the frame; an error stops the simulation.
type Surface interface {
	Render(f Frame) error
}

// SurfaceFunc adapts a function to a Surface.
type SurfaceFunc func(f Frame) error

func (fn SurfaceFunc) Render(f Frame) error { return fn(f) }

// Discard is a Surface that drops every frame.
var Discard Surface = SurfaceFunc(func(Frame) error { return nil })

// Tee renders each frame on every surface in order, stopping at the first
// error.
func Tee(surfaces ...Surface) Surface {
	return SurfaceFunc(func(f Frame) error {
		for _, s := range surfaces {
			if err := s.Render(f); err != nil {
				return err
			}
		}
		return nil
	})
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f Frame)
}

// Clock is the time source used for pacing. Since must measure with a
// monotonic reading.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time                  { return time.Now() }
func (systemClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (systemClock) Sleep(d time.Duration)           { time.Sleep(d) }

// SystemClock reads the process clock. time.Now carries a monotonic
// reading, so wall-clock adjustments do not affect Since.
var SystemClock Clock = systemClock{}

type Config struct {
	InitialTime float64
	Duration    float64
	Step        float64
	// Pacing sleeps after each step for whatever is left of Step seconds.
	Pacing bool
	// KeepHistory stores every frame in the result.
	KeepHistory bool
	// ValidateState stops the run on the first NaN or Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		InitialTime: 0,
		Duration:    30,
		Step:        0.04,
	}
}

// MaxSteps bounds the step budget of a single run.
const MaxSteps = math.MaxInt32

func (c Config) Validate() error {
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("step size must be positive, got %g: %w", c.Step, dynamo.ErrInvalidConfig)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %g: %w", c.Duration, dynamo.ErrInvalidConfig)
	}
	if n := c.Duration / c.Step; math.IsInf(n, 0) || n > MaxSteps {
		return fmt.Errorf("%g steps of %g exceeds %d steps: %w", n, c.Step, MaxSteps, dynamo.ErrInvalidConfig)
	}
	return nil
}

// Steps is the number of steps needed for time to reach InitialTime+Duration,
// ceil(Duration/Step). The quotient is shrunk by a relative 1e-9 first so
// that rounding in the division cannot add a step.
func (c Config) Steps() int {
	n := c.Duration / c.Step
	return int(math.Ceil(n - n*1e-9))
}

// StepDuration is Step as a wall-clock budget.
func (c Config) StepDuration() time.Duration {
	return time.Duration(c.Step * float64(time.Second))
}

type Result struct {
	Steps       int
	InitialTime float64
	FinalTime   float64
	Final       dynamo.State
	Frames      []Frame
	Metrics     map[string]float64
	EnergyDrift float64
	// Overruns counts paced steps that used up their whole budget.
	Overruns int
	Slept    time.Duration
}
