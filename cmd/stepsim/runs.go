package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/stepsim/internal/analysis"
	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/experiment"
	"github.com/san-kum/stepsim/internal/plot"
	"github.com/san-kum/stepsim/internal/render"
	"github.com/san-kum/stepsim/internal/sim"
	"github.com/san-kum/stepsim/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tDURATION\tSTEP\tINTEG\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Step,
			run.Integrator,
			run.Steps,
		)
	}
	return w.Flush()
}

func stateCaption(system string, i int) string {
	switch {
	case system == "pendulum" && i == 0:
		return "theta (angle)"
	case system == "pendulum" && i == 1:
		return "omega (angular velocity)"
	case system == "oscillator" && i == 0:
		return "position"
	case system == "oscillator" && i == 1:
		return "velocity"
	}
	return fmt.Sprintf("x%d vs time", i)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("samples: %d\n\n", len(states))

	series := make([]render.Series, len(states[0]))
	for i := range series {
		data := make([]float64, len(states))
		for j := range states {
			data[j] = states[j][i]
		}
		series[i] = render.Series{Name: stateCaption(meta.System, i), Values: data}

		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series[i].Name),
		))
		fmt.Println()
	}

	if pngPath != "" {
		title := fmt.Sprintf("%s (%s)", meta.System, meta.Integrator)
		if err := render.SaveSeriesPNG(pngPath, title, "time (s)", times, series...); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, values, err := st.LoadSeries(runID, column)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s, %d samples)\n", meta.ID, meta.System, len(values))
	fmt.Printf("column: %s\n", column)
	if len(times) > 0 {
		fmt.Printf("span: %.3fs to %.3fs\n", times[0], times[len(times)-1])
	}
	fmt.Printf("zero crossings: %d\n", analysis.Crossings(values))

	period, err := analysis.DominantPeriod(values, meta.Step)
	if err != nil {
		return err
	}
	fmt.Printf("dominant period: %.4fs (%.4f Hz)\n", period, 1/period)
	printMetrics(meta.Metrics)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}
	frames := table.Frames()
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	portrait, err := analysis.PhasePortrait(frames, xAxis, yAxis)
	if err != nil {
		return err
	}
	fmt.Printf("phase portrait of %s: x%d vs x%d\n\n", runID, yAxis, xAxis)
	fmt.Println(portrait.ASCII(70, 25))

	if phaseDir == "" {
		return nil
	}
	canvas := render.NewSVGCanvas(600, 600, render.DirSink(phaseDir, "phase", "svg"))
	attrs := plot.NewAttributes(plot.NewColorIndex(), plot.WithLineColor(render.VelocityColor))
	if err := plot.Frame(canvas, portrait.Drawable(attrs)); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", phaseDir)
	return nil
}

// exportCSV rewrites the stored table on stdout, so damaged files fail
// here rather than in whatever reads the export.
func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	table, err := st.LoadTable(args[0])
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, table.Frames())
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	table, err := st.LoadTable(runID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, table.Frames())
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	name := args[0]
	integs := args[1:]
	reg := experiment.NewRegistry()

	fmt.Printf("comparing integrators for %s (dt=%.4f, duration=%.1fs)\n\n", name, dt, duration)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s\n", "integrator", "final_x0", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 52))

	for _, integ := range integs {
		cfg := config.DefaultConfig()
		cfg.System = name
		cfg.Integrator = integ
		cfg.InitialAngle = angle
		cfg.StepSize = dt
		cfg.TotalDuration = duration
		cfg.Pacing = false
		cfg.Surface = "none"

		exp := experiment.New(cfg)
		if err := exp.Setup(reg, sim.Discard); err != nil {
			fmt.Printf("%-12s  error: %v\n", integ, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", integ, err)
			continue
		}

		fmt.Printf("%-12s  %12.6f  %12.2e  %12.2f\n", integ, result.Final[0], result.EnergyDrift, float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSYSTEM\tANGLE\tDAMPING\tSTEP\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\n",
			name, cfg.System, cfg.InitialAngle, cfg.Damping, cfg.StepSize, cfg.TotalDuration)
	}
	return w.Flush()
}

func replayLog(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	cmds, err := plot.ParseCommands(f)
	if err != nil {
		return err
	}
	canvas := render.NewSVGCanvas(frameWidth, frameWidth, render.DirSink(replayOut, "frame", "svg"))
	if err := plot.Replay(cmds, canvas); err != nil {
		return err
	}
	fmt.Printf("replayed %d commands into %s\n", len(cmds), replayOut)
	return nil
}
