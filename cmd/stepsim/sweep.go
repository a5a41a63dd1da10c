package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/stepsim/internal/experiment"
)

// parseGrid reads field=v1,v2,... specs.
func parseGrid(specs []string) (experiment.Grid, error) {
	var g experiment.Grid
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" || list == "" {
			return g, fmt.Errorf("bad --param %q, want field=v1,v2", spec)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return g, fmt.Errorf("--param %s: %w", name, err)
			}
			values = append(values, v)
		}
		g.Add(name, values...)
	}
	return g, nil
}

func sweepParameters(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	g, err := parseGrid(sweepParams)
	if err != nil {
		return err
	}
	if g.Size() == 0 {
		return fmt.Errorf("nothing to sweep, add --param")
	}

	fmt.Printf("sweeping %d runs of %s (%s)\n\n", g.Size(), base.System, base.Integrator)
	points, err := experiment.Sweep(cmd.Context(), experiment.NewRegistry(), base, g)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := append(append([]string{}, g.Names...), strings.ToUpper(sweepMetric))
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, p := range points {
		row := make([]string, 0, len(g.Names)+1)
		for _, name := range g.Names {
			row = append(row, strconv.FormatFloat(p.Params[name], 'g', -1, 64))
		}
		if p.Err != nil {
			row = append(row, "error: "+p.Err.Error())
		} else {
			row = append(row, fmt.Sprintf("%.6g", p.Metric(sweepMetric)))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best, ok := experiment.Best(points, sweepMetric)
	if !ok {
		return fmt.Errorf("no run reported %q", sweepMetric)
	}
	names := make([]string, 0, len(best.Params))
	for name := range best.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Printf("\nbest %s = %.6g at", sweepMetric, best.Metric(sweepMetric))
	for _, name := range names {
		fmt.Printf(" %s=%g", name, best.Params[name])
	}
	fmt.Println()
	return nil
}
