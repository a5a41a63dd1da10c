package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/stepsim/internal/audio"
	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/experiment"
	"github.com/san-kum/stepsim/internal/gui"
	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/plot"
	"github.com/san-kum/stepsim/internal/render"
	"github.com/san-kum/stepsim/internal/sim"
	"github.com/san-kum/stepsim/internal/storage"
	"github.com/san-kum/stepsim/internal/telemetry"
	"github.com/san-kum/stepsim/internal/tui"
)

func withSurface(name string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("surface") {
			if err := cmd.Flags().Set("surface", name); err != nil {
				return err
			}
		}
		return runSimulation(cmd, args)
	}
}

// resolveConfig layers preset, config file and changed flags, in that
// order, over the defaults.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		var err error
		if cfg, err = config.LoadOnto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		cfg.System = args[0]
	}
	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("angle") {
		cfg.InitialAngle = angle
	}
	if flags.Changed("omega") {
		cfg.InitialOmega = omega
	}
	if flags.Changed("damping") {
		cfg.Damping = damping
	}
	if flags.Changed("length") {
		cfg.Length = length
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("dt") {
		cfg.StepSize = dt
	}
	if flags.Changed("time") {
		cfg.TotalDuration = duration
	}
	if flags.Changed("no-pacing") {
		cfg.Pacing = !noPacing
	}
	if flags.Changed("validate") {
		cfg.ValidateState = validate
	}
	if flags.Changed("surface") {
		cfg.Surface = surface
	}
	if flags.Changed("out") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("mqtt") {
		cfg.MQTTURL = mqttURL
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pendulum := render.NewPendulum(plot.NewColorIndex())
	if cfg.System != "pendulum" {
		pendulum.Title = cfg.System
	}
	scene := pendulum.Scene

	reg := experiment.NewRegistry()
	rec := &storage.Recorder{}
	run := func(ctx context.Context, surf sim.Surface) (*sim.Result, error) {
		exp := experiment.New(cfg)
		if err := exp.Setup(reg, surf); err != nil {
			return nil, err
		}
		exp.GetSimulator().AddObserver(rec)
		return exp.Run(ctx)
	}

	start := time.Now()
	var result *sim.Result
	var runErr error

	switch cfg.Surface {
	case "tui":
		omegaMax, accelMax := gaugeLimits(cfg)
		m := tui.NewModel(pendulum.Title, scene, omegaMax, accelMax)
		result, runErr = tui.Run(ctx, m, tui.RunFunc(run))
	case "window":
		result, runErr = gui.Run(ctx, newWindow("stepsim: "+pendulum.Title), gui.NewDisplay(scene), gui.RunFunc(run))
	default:
		surf, closeSurface, err := openSurface(cfg, scene)
		if err != nil {
			return err
		}
		result, runErr = run(ctx, surf)
		if pub, ok := surf.(*telemetry.Surface); ok && result != nil {
			if err := pub.PublishResult(result, runErr); err != nil {
				glog.Warningf("publish result: %v", err)
			}
		}
		if err := closeSurface(); err != nil && runErr == nil {
			runErr = err
		}
	}
	elapsed := time.Since(start)

	if result == nil {
		return runErr
	}
	printSummary(cfg, result, elapsed)

	if !noSave && len(rec.Frames) > 0 {
		if err := saveRun(cfg, result, rec.Frames); err != nil {
			glog.Warningf("save run: %v", err)
		}
	}
	return runErr
}

// gaugeLimits scales the live gauges to the largest omega and y_A a
// pendulum released from the configured state can reach.
func gaugeLimits(cfg *config.Config) (omegaMax, accelMax float64) {
	if cfg.System != "pendulum" {
		return 2, 2
	}
	p := &physics.DampedPendulum{Gravity: cfg.Gravity, Length: cfg.Length}
	x0 := cfg.InitialState()
	e := p.Energy(x0)
	omegaMax = math.Sqrt(2*e) / cfg.Length
	accelMax = math.Sqrt(2 * e)
	if omegaMax == 0 {
		return 1, 1
	}
	return omegaMax, accelMax
}

// openSurface builds the non-interactive surfaces. The returned func
// releases whatever the surface holds open.
func openSurface(cfg *config.Config, scene render.SceneFunc) (sim.Surface, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Surface {
	case "none":
		return sim.Discard, noop, nil
	case "svg":
		c := render.NewSVGCanvas(600, 600, render.DirSink(cfg.OutputDir, "frame", "svg"))
		return render.NewCanvasSurface(c, scene), noop, nil
	case "png":
		c := render.NewVGCanvas(15*vg.Centimeter, 15*vg.Centimeter, render.DirSink(cfg.OutputDir, "frame", "png"))
		return render.NewCanvasSurface(c, scene), noop, nil
	case "log":
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.Create(filepath.Join(cfg.OutputDir, "frames.gr"))
		if err != nil {
			return nil, nil, err
		}
		l := plot.NewCommandLog(f)
		closeLog := func() error {
			if err := l.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}
		return render.NewCanvasSurface(l, scene), closeLog, nil
	case "mqtt":
		b, err := telemetry.Dial(cfg.MQTTURL, 5*time.Second)
		if err != nil {
			return nil, nil, err
		}
		s := telemetry.NewSurface(b, b.Prefix)
		s.Every = mqttEvery
		return s, b.Close, nil
	case "audio":
		s := audio.NewSonifier()
		if err := s.Start(); err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	}
	return nil, nil, fmt.Errorf("surface %q cannot run here", cfg.Surface)
}

func printSummary(cfg *config.Config, result *sim.Result, elapsed time.Duration) {
	fmt.Printf("system: %s (%s)\n", cfg.System, cfg.Integrator)
	fmt.Printf("steps: %d of %d, t=%.4f\n", result.Steps, cfg.SimConfig().Steps(), result.FinalTime)
	fmt.Printf("final state: %v\n", []float64(result.Final))
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	if cfg.Pacing {
		fmt.Printf("overruns: %d, slept %v\n", result.Overruns, result.Slept.Round(time.Millisecond))
	}
	fmt.Printf("wall time: %v\n", elapsed.Round(time.Millisecond))

	printMetrics(result.Metrics)
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-20s %.6g\n", name, m[name])
	}
}

func saveRun(cfg *config.Config, result *sim.Result, frames []sim.Frame) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(storage.RunMetadata{
		System:       cfg.System,
		Integrator:   cfg.Integrator,
		InitialTime:  cfg.InitialTime,
		Step:         cfg.StepSize,
		Duration:     cfg.TotalDuration,
		InitialState: cfg.InitialState(),
		Params:       cfg.Params(),
		Steps:        result.Steps,
		EnergyDrift:  result.EnergyDrift,
		Metrics:      result.Metrics,
	}, frames)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", id)
	return nil
}
