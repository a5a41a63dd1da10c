package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	dataDir    string
	configFile string
	preset     string

	system     string
	integrator string
	angle      float64
	omega      float64
	damping    float64
	length     float64
	gravity    float64
	dt         float64
	duration   float64
	noPacing   bool
	validate   bool

	surface   string
	outputDir string
	mqttURL   string
	mqttEvery int
	noSave    bool

	column     string
	pngPath    string
	xAxis      int
	yAxis      int
	replayOut  string
	phaseDir   string
	frameWidth int

	sweepParams []string
	sweepMetric string
)

// main registers the commands and runs the root command. Any error exits
// with status 1.
func main() {
	rootCmd := &cobra.Command{
		Use:           "stepsim",
		Short:         "fixed-step ODE simulator with paced, drawable output",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// glog reads its flags from the go flag set.
			flag.CommandLine.Parse(nil)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".stepsim", "data directory")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "run a simulation on the configured surface",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd.Flags())

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "run in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  withSurface("tui"),
	}
	addRunFlags(liveCmd.Flags())

	windowCmd := &cobra.Command{
		Use:   "window [system]",
		Short: "run in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  withSurface("window"),
	}
	addRunFlags(windowCmd.Flags())

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngPath, "png", "", "also write the plot to this PNG file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "theta", "column to analyse")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")
	phaseCmd.Flags().StringVar(&phaseDir, "svg", "", "also write the portrait as an SVG into this directory")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [system] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same system",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", 0.04, "step size")
	compareCmd.Flags().Float64Var(&duration, "time", 30, "duration")
	compareCmd.Flags().Float64Var(&angle, "angle", 110, "initial angle in degrees")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "redraw a graphics command log as SVG frames",
		Args:  cobra.ExactArgs(1),
		RunE:  replayLog,
	}
	replayCmd.Flags().StringVar(&replayOut, "out", "replay", "output directory")
	replayCmd.Flags().IntVar(&frameWidth, "size", 600, "frame size in pixels")

	sweepCmd := &cobra.Command{
		Use:   "sweep [system]",
		Short: "run a grid of parameter values headless and rank them by a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepParameters,
	}
	addRunFlags(sweepCmd.Flags())
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "field=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimise")

	rootCmd.AddCommand(runCmd, liveCmd, windowCmd, listCmd, plotCmd, analyzeCmd, phaseCmd,
		exportCSVCmd, exportJSONCmd, compareCmd, presetsCmd, replayCmd, sweepCmd)

	err := rootCmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.StringVar(&configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&preset, "preset", "", "start from a preset")
	fs.StringVar(&integrator, "integrator", "rk4", "integrator")
	fs.Float64Var(&angle, "angle", 110, "initial angle in degrees")
	fs.Float64Var(&omega, "omega", 0, "initial angular velocity")
	fs.Float64Var(&damping, "damping", 0.1, "damping coefficient gamma")
	fs.Float64Var(&length, "length", 1, "rod length")
	fs.Float64Var(&gravity, "gravity", 9.8, "gravitational acceleration")
	fs.Float64Var(&dt, "dt", 0.04, "step size in seconds")
	fs.Float64Var(&duration, "time", 30, "duration in seconds")
	fs.BoolVar(&noPacing, "no-pacing", false, "run as fast as possible")
	fs.BoolVar(&validate, "validate", false, "stop on the first NaN or Inf")
	fs.StringVar(&surface, "surface", "tui", "tui | window | svg | png | log | mqtt | audio | none")
	fs.StringVar(&outputDir, "out", "frames", "output directory for svg, png and log surfaces")
	fs.StringVar(&mqttURL, "mqtt", "mqtt://localhost:1883/stepsim", "broker url for the mqtt surface")
	fs.IntVar(&mqttEvery, "mqtt-every", 1, "publish every n-th frame")
	fs.BoolVar(&noSave, "no-save", false, "do not store the run")
}
