package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/glog"

	"github.com/san-kum/stepsim/internal/dynamo"
)

type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	surface    Surface
	clock      Clock
	metrics    []Metric
	observers  []Observer
}

// New builds a simulator. A nil surface discards frames.
func New(sys dynamo.System, integrator dynamo.Integrator, surface Surface) *Simulator {
	if surface == nil {
		surface = Discard
	}
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		surface:    surface,
		clock:      SystemClock,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) SetClock(c Clock)       { s.clock = c }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances x0 for cfg.Steps() steps. Each iteration checks ctx, takes
// one step, hands the frame to observers and the surface, then sleeps out
// the rest of the step when pacing is on. The partial result is returned
// alongside any error.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("initial state has %d components, system needs %d: %w",
			len(x0), s.sys.StateDim(), dynamo.ErrDimensionMismatch)
	}

	steps := cfg.Steps()
	result := &Result{
		InitialTime: cfg.InitialTime,
		FinalTime:   cfg.InitialTime,
		Final:       x0.Clone(),
		Metrics:     make(map[string]float64),
	}
	if cfg.KeepHistory {
		result.Frames = make([]Frame, 0, steps)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	f := s.sys.Derive
	x := x0.Clone()
	t := cfg.InitialTime
	budget := cfg.StepDuration()
	initialEnergy := s.computeEnergy(x)

	glog.V(1).Infof("sim: %d steps of %gs from t=%g", steps, cfg.Step, t)

	var runErr error
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("stopped before step %d: %w", i+1, err)
			break
		}

		start := s.clock.Now()
		t, x = s.integrator.Step(f, t, x, cfg.Step)

		if cfg.ValidateState && !x.IsValid() {
			runErr = &dynamo.SimulationError{Step: i + 1, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
			break
		}

		frame := s.frame(i+1, t, x)
		result.Steps++
		result.FinalTime = t
		result.Final = x

		for _, m := range s.metrics {
			m.Observe(frame)
		}
		for _, obs := range s.observers {
			obs.OnFrame(frame)
		}
		if cfg.KeepHistory {
			result.Frames = append(result.Frames, frame)
		}

		if err := s.surface.Render(frame); err != nil {
			runErr = &dynamo.SimulationError{Step: i + 1, Time: t, State: x.Clone(), Wrapped: err}
			break
		}

		if cfg.Pacing {
			remaining := budget - s.clock.Since(start)
			if remaining > 0 {
				s.clock.Sleep(remaining)
				result.Slept += remaining
			} else {
				result.Overruns++
				glog.V(2).Infof("sim: step %d overran its budget by %v", i+1, -remaining)
			}
		}
	}

	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(s.computeEnergy(result.Final)-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		glog.V(1).Infof("sim: stopped after %d steps: %v", result.Steps, runErr)
		return result, runErr
	}
	glog.V(1).Infof("sim: finished %d steps at t=%g, %d overruns", result.Steps, result.FinalTime, result.Overruns)
	return result, nil
}

func (s *Simulator) frame(step int, t float64, x dynamo.State) Frame {
	fr := Frame{Step: step, Time: t, State: x}
	if d, ok := s.sys.(dynamo.Describer); ok {
		fr.Quantities = d.Quantities(t, x)
	}
	return fr
}

func (s *Simulator) computeEnergy(x dynamo.State) float64 {
	if h, ok := s.sys.(dynamo.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}
