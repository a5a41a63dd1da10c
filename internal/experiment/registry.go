package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/integrators"
	"github.com/san-kum/stepsim/internal/metrics"
	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/sim"
)

type Registry struct {
	systems     map[string]func() dynamo.System
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		systems:     make(map[string]func() dynamo.System),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.systems["pendulum"] = func() dynamo.System { return physics.NewDampedPendulum() }
	r.systems["oscillator"] = func() dynamo.System { return physics.NewOscillator() }

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["leapfrog"] = func() dynamo.Integrator { return integrators.NewLeapfrog() }

	return r
}

// GetSystem builds the named system and applies params through SetParam.
func (r *Registry) GetSystem(name string, params map[string]float64) (dynamo.System, error) {
	fn, ok := r.systems[name]
	if !ok {
		return nil, fmt.Errorf("unknown system: %s", name)
	}
	sys := fn()
	if c, ok := sys.(dynamo.Configurable); ok {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := c.SetParam(k, params[k]); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return sys, nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListSystems() []string {
	return sortedKeys(r.systems)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics are the metrics every run of sys reports.
func (r *Registry) DefaultMetrics(sys dynamo.System) []sim.Metric {
	ms := []sim.Metric{metrics.NewBound(100)}
	if h, ok := sys.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergy(h), metrics.NewEnergyDrift(sys))
	}
	if _, ok := sys.(*physics.DampedPendulum); ok {
		ms = append(ms, metrics.NewPeak(physics.QuantityOmega), metrics.NewPeak(physics.QuantityAcceleration))
	}
	return ms
}
