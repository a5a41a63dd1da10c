package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/sim"
)

func TestRegistryLists(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, []string{"oscillator", "pendulum"}, r.ListSystems())
	require.Equal(t, []string{"euler", "leapfrog", "rk4", "rk45", "verlet"}, r.ListIntegrators())

	for _, name := range r.ListIntegrators() {
		integ, err := r.GetIntegrator(name)
		require.NoError(t, err)
		tm, _ := integ.Step(physics.NewOscillator().Derive, 0, dynamo.State{1, 0}, 0.01)
		require.InDelta(t, 0.01, tm, 1e-15, name)
	}
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.GetSystem("lorenz", nil)
	require.Error(t, err)
	_, err = r.GetIntegrator("magic")
	require.Error(t, err)
}

func TestRegistryAppliesParams(t *testing.T) {
	r := NewRegistry()
	sys, err := r.GetSystem("pendulum", map[string]float64{"length": 2, "damping": 0.3, "gravity": 9.81})
	require.NoError(t, err)
	p := sys.(*physics.DampedPendulum)
	require.Equal(t, 2.0, p.Length)
	require.Equal(t, 0.3, p.Damping)

	_, err = r.GetSystem("pendulum", map[string]float64{"length": -1})
	require.True(t, errors.Is(err, dynamo.ErrParameterBounds))
}

func TestExperimentClassicRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Pacing = false

	e := New(cfg)
	var frames int
	require.NoError(t, e.Setup(NewRegistry(), sim.SurfaceFunc(func(sim.Frame) error {
		frames++
		return nil
	})))

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 750, result.Steps)
	require.Equal(t, 750, frames)
	require.InDelta(t, 30, result.FinalTime, 1e-9)

	require.Equal(t, 1.0, result.Metrics["bounded"])
	require.NoError(t, e.Unstable())
	require.Greater(t, result.Metrics["energy_drift"], 0.9)
	e0 := 9.8 * (1 - math.Cos(110*math.Pi/180))
	require.Greater(t, result.Metrics["peak_omega"], 4.0)
	require.Less(t, result.Metrics["peak_omega"], math.Sqrt(2*e0))
}

func TestExperimentOscillator(t *testing.T) {
	cfg := config.GetPreset("oscillator")
	cfg.Pacing = false
	cfg.StepSize = 2 * math.Pi / 628
	cfg.TotalDuration = 2 * math.Pi

	e := New(cfg)
	require.NoError(t, e.Setup(NewRegistry(), nil))
	result, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 628, result.Steps)
	require.InDelta(t, 1, result.Final[0], 1e-3)
	require.Less(t, result.Metrics["energy_drift"], 1e-6)
}

func TestExperimentUnstable(t *testing.T) {
	cfg := config.GetPreset("undamped")
	cfg.Integrator = "euler"
	cfg.StepSize = 1
	cfg.Pacing = false

	e := New(cfg)
	require.NoError(t, e.Setup(NewRegistry(), nil))
	_, err := e.Run(context.Background())
	require.NoError(t, err)
	require.ErrorIs(t, e.Unstable(), dynamo.ErrUnstable)
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StepSize = 0
	require.ErrorIs(t, New(cfg).Setup(NewRegistry(), nil), dynamo.ErrInvalidConfig)

	_, err := New(config.DefaultConfig()).Run(context.Background())
	require.Error(t, err)
}

func TestSweepGrid(t *testing.T) {
	base := config.DefaultConfig()
	base.TotalDuration = 2

	var g Grid
	g.Add("damping", 0, 0.5)
	g.Add("initial_angle", 10, 60, 110)
	require.Equal(t, 6, g.Size())

	points, err := Sweep(context.Background(), NewRegistry(), base, g)
	require.NoError(t, err)
	require.Len(t, points, 6)
	require.Equal(t, map[string]float64{"damping": 0, "initial_angle": 60}, points[1].Params)
	for _, p := range points {
		require.NoError(t, p.Err)
		require.Equal(t, 50, p.Result.Steps)
	}
	require.True(t, base.Pacing, "base config must not change")

	best, ok := Best(points, "peak_omega")
	require.True(t, ok)
	require.Equal(t, map[string]float64{"damping": 0.5, "initial_angle": 10}, best.Params)
}

func TestSweepErrors(t *testing.T) {
	var g Grid
	g.Add("colour", 1)
	_, err := Sweep(context.Background(), NewRegistry(), config.DefaultConfig(), g)
	require.True(t, errors.Is(err, dynamo.ErrInvalidConfig))

	g = Grid{}
	g.Add("length", 1, -1)
	points, err := Sweep(context.Background(), NewRegistry(), config.DefaultConfig(), g)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Error(t, points[1].Err)
	require.True(t, math.IsNaN(points[1].Metric("energy")))

	best, ok := Best(points, "energy")
	require.True(t, ok)
	require.Equal(t, 1.0, best.Params["length"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Sweep(ctx, NewRegistry(), config.DefaultConfig(), g)
	require.True(t, errors.Is(err, context.Canceled))
}
