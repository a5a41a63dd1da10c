package gui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/golang/glog"

	"github.com/san-kum/stepsim/internal/plot"
	"github.com/san-kum/stepsim/internal/render"
	"github.com/san-kum/stepsim/internal/sim"
)

// Display holds the drawing of the latest frame. The simulation goroutine
// renders into it and the window goroutine replays it, so neither waits on
// the other for longer than a slice swap.
type Display struct {
	scene   render.SceneFunc
	palette *plot.Palette

	mu     sync.Mutex
	latest plot.Recording
	frame  sim.Frame
	done   bool
	err    error
}

func NewDisplay(scene render.SceneFunc) *Display {
	return &Display{scene: scene, palette: plot.DefaultPalette()}
}

// Render draws the scene of f into a fresh display list and swaps it in.
func (d *Display) Render(f sim.Frame) error {
	var rec plot.Recording
	if err := plot.Frame(&rec, d.scene(f)); err != nil {
		return fmt.Errorf("render step %d: %w", f.Step, err)
	}
	d.mu.Lock()
	rec.Frames = d.latest.Frames + 1
	d.latest = rec
	d.frame = f
	d.mu.Unlock()
	return nil
}

// Snapshot returns the latest display list and its frame. The ops are
// never modified after the swap, so the caller may replay them unlocked.
func (d *Display) Snapshot() (plot.Recording, sim.Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest, d.frame
}

// Finish records that the simulation has returned.
func (d *Display) Finish(err error) {
	d.mu.Lock()
	d.done, d.err = true, err
	d.mu.Unlock()
}

// Status is the one line shown under the drawing.
func (d *Display) Status() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.err != nil:
		return "failed: " + d.err.Error()
	case d.done:
		return fmt.Sprintf("finished at t=%.2f, close the window to exit", d.frame.Time)
	default:
		return fmt.Sprintf("step %d", d.frame.Step)
	}
}

// Color resolves a palette index for the window backends.
func (d *Display) Color(idx int) color.RGBA {
	return d.palette.RGBA(idx)
}

// Viewport is the largest centred square of a window. Normalised device
// coordinates map onto it with y pointing up.
type Viewport struct {
	X, Y, Side float64
}

func Fit(width, height int) Viewport {
	side := math.Min(float64(width), float64(height))
	return Viewport{
		X:    (float64(width) - side) / 2,
		Y:    (float64(height) - side) / 2,
		Side: side,
	}
}

func (v Viewport) ToScreen(x, y float64) (float64, float64) {
	return v.X + x*v.Side, v.Y + (1-y)*v.Side
}

// Scale converts a length in normalised units to pixels.
func (v Viewport) Scale(l float64) float64 {
	return l * v.Side
}

// Window shows a Display until the user closes it or ctx is done.
type Window interface {
	Show(ctx context.Context, d *Display) error
}

// RunFunc runs a simulation against surface until ctx is cancelled.
type RunFunc func(ctx context.Context, surface sim.Surface) (*sim.Result, error)

// Run shows w on the calling goroutine while run advances the simulation
// on another. Closing the window cancels the simulation.
func Run(ctx context.Context, w Window, d *Display, run RunFunc) (*sim.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		result *sim.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := run(ctx, d)
		d.Finish(err)
		done <- outcome{result, err}
	}()

	showErr := w.Show(ctx, d)
	glog.V(1).Info("gui: window closed")
	cancel()
	out := <-done

	if showErr != nil {
		return out.result, fmt.Errorf("window: %w", showErr)
	}
	if errors.Is(out.err, context.Canceled) {
		return out.result, nil
	}
	return out.result, out.err
}
