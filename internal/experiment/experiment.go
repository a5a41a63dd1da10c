package experiment

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/metrics"
	"github.com/san-kum/stepsim/internal/sim"
)

// Experiment is one configured run: system, stepper, metrics and initial
// state resolved from a config.
type Experiment struct {
	cfg       *config.Config
	sys       dynamo.System
	simulator *sim.Simulator
	bound     *metrics.Bound
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the config and wires the simulator to surface.
func (e *Experiment) Setup(reg *Registry, surface sim.Surface) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	sys, err := reg.GetSystem(e.cfg.System, e.cfg.Params())
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	e.sys = sys
	e.simulator = sim.New(sys, integ, surface)
	x0 := e.cfg.InitialState()
	for _, m := range reg.DefaultMetrics(sys) {
		switch m := m.(type) {
		case *metrics.EnergyDrift:
			m.SetReference(x0)
		case *metrics.Bound:
			e.bound = m
		}
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	glog.V(1).Infof("experiment: %s with %s from %v", e.cfg.System, e.cfg.Integrator, e.cfg.InitialState())
	result, err := e.simulator.Run(ctx, e.cfg.InitialState(), e.cfg.SimConfig())
	if uerr := e.Unstable(); uerr != nil {
		glog.Warningf("experiment: %s: %v", e.cfg.System, uerr)
	}
	return result, err
}

// Unstable reports whether the last run left the divergence bound.
func (e *Experiment) Unstable() error {
	if e.bound == nil {
		return nil
	}
	return e.bound.Err()
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) System() dynamo.System {
	return e.sys
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
