package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/sim"
)

func TestBound(t *testing.T) {
	b := NewBound(10)
	frames := []sim.Frame{
		{Step: 1, State: dynamo.State{1, 2}},
		{Step: 2, State: dynamo.State{-11, 0}},
		{Step: 3, State: dynamo.State{math.NaN(), 0}},
		{Step: 4, State: dynamo.State{math.Inf(-1), 0}},
	}
	for _, f := range frames {
		b.Observe(f)
	}

	if !b.Diverged() {
		t.Error("expected divergence")
	}
	if b.FirstViolation() != 2 {
		t.Errorf("first violation at step %d, want 2", b.FirstViolation())
	}
	if b.Value() != 0.25 {
		t.Errorf("value = %v, want 0.25", b.Value())
	}

	if err := b.Err(); !errors.Is(err, dynamo.ErrUnstable) {
		t.Errorf("expected ErrUnstable, got %v", err)
	}

	b.Reset()
	if b.Diverged() || b.Value() != 1 || b.FirstViolation() != 0 || b.Err() != nil {
		t.Error("reset did not clear the metric")
	}
}

func TestPeak(t *testing.T) {
	p := NewPeak("theta")
	for _, v := range []float64{0.5, -1.5, 1.0} {
		p.Observe(sim.Frame{Quantities: []dynamo.Quantity{{Name: "theta", Value: v}}})
	}
	p.Observe(sim.Frame{})

	if p.Value() != 1.5 {
		t.Errorf("peak = %v, want 1.5", p.Value())
	}
	if p.Name() != "peak_theta" {
		t.Errorf("name = %q", p.Name())
	}
}
