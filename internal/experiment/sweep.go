package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/glog"

	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/sim"
)

// Grid lists the values to try for each config field, by yaml name.
type Grid struct {
	Names  []string
	Values [][]float64
}

func (g *Grid) Add(name string, values ...float64) {
	g.Names = append(g.Names, name)
	g.Values = append(g.Values, values)
}

// Size is the number of runs the grid expands to.
func (g *Grid) Size() int {
	if len(g.Names) == 0 {
		return 0
	}
	n := 1
	for _, v := range g.Values {
		n *= len(v)
	}
	return n
}

// SweepPoint is the outcome of one grid point. A point whose run failed
// keeps its partial result next to the error.
type SweepPoint struct {
	Params map[string]float64
	Result *sim.Result
	Err    error
}

// Metric returns a metric of the point's result, or NaN if it has none.
func (p SweepPoint) Metric(name string) float64 {
	if p.Result == nil {
		return math.NaN()
	}
	v, ok := p.Result.Metrics[name]
	if !ok {
		return math.NaN()
	}
	return v
}

// Sweep runs base once per grid point, with pacing off and no surface.
// Points are visited with the last field varying fastest. It stops early
// only when ctx is done.
func Sweep(ctx context.Context, reg *Registry, base *config.Config, g Grid) ([]SweepPoint, error) {
	if len(g.Names) != len(g.Values) {
		return nil, fmt.Errorf("grid has %d names and %d value lists", len(g.Names), len(g.Values))
	}
	probe := *base
	for _, name := range g.Names {
		if err := probe.SetField(name, 0); err != nil {
			return nil, err
		}
	}

	points := make([]SweepPoint, 0, g.Size())
	err := sweep(ctx, reg, base, g, 0, map[string]float64{}, &points)
	return points, err
}

func sweep(ctx context.Context, reg *Registry, base *config.Config, g Grid, depth int, current map[string]float64, points *[]SweepPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.Names) {
		*points = append(*points, runPoint(ctx, reg, base, current))
		return nil
	}

	name := g.Names[depth]
	for _, v := range g.Values[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, cv := range current {
			next[k] = cv
		}
		next[name] = v
		if err := sweep(ctx, reg, base, g, depth+1, next, points); err != nil {
			return err
		}
	}
	return nil
}

func runPoint(ctx context.Context, reg *Registry, base *config.Config, params map[string]float64) SweepPoint {
	cfg := *base
	cfg.Pacing = false
	cfg.Surface = "none"
	for name, v := range params {
		cfg.SetField(name, v)
	}

	p := SweepPoint{Params: params}
	e := New(&cfg)
	if p.Err = e.Setup(reg, sim.Discard); p.Err != nil {
		return p
	}
	p.Result, p.Err = e.Run(ctx)
	glog.V(1).Infof("sweep: %v -> %v", params, p.Err)
	return p
}

// Best returns the successful point with the lowest value of metric.
func Best(points []SweepPoint, metric string) (SweepPoint, bool) {
	var best SweepPoint
	found := false
	for _, p := range points {
		v := p.Metric(metric)
		if p.Err != nil || math.IsNaN(v) {
			continue
		}
		if !found || v < best.Metric(metric) {
			best, found = p, true
		}
	}
	return best, found
}
