package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/sim"
)

// Bound flags frames whose state leaves [-threshold, threshold] or holds a
// non-finite value. The stepper never checks this itself, so a diverging
// run is only visible through a metric like this one.
type Bound struct {
	name       string
	threshold  float64
	violations int
	samples    int
	firstStep  int
}

func NewBound(threshold float64) *Bound {
	return &Bound{
		name:      "bounded",
		threshold: threshold,
	}
}

func (b *Bound) Name() string {
	return b.name
}

func (b *Bound) Observe(f sim.Frame) {
	b.samples++
	for _, val := range f.State {
		if math.IsNaN(val) || math.Abs(val) > b.threshold {
			b.violations++
			if b.firstStep == 0 {
				b.firstStep = f.Step
			}
			break
		}
	}
}

// Value is the fraction of frames that stayed in bounds.
func (b *Bound) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bound) Diverged() bool { return b.violations > 0 }

// FirstViolation is the step of the first out-of-bounds frame, or 0.
func (b *Bound) FirstViolation() int { return b.firstStep }

// Err wraps dynamo.ErrUnstable once any frame left the bound.
func (b *Bound) Err() error {
	if b.violations == 0 {
		return nil
	}
	return fmt.Errorf("state left [-%g, %g] at step %d: %w", b.threshold, b.threshold, b.firstStep, dynamo.ErrUnstable)
}

func (b *Bound) Reset() {
	b.violations = 0
	b.samples = 0
	b.firstStep = 0
}

// Peak records the largest magnitude of one named frame quantity.
type Peak struct {
	quantity string
	peak     float64
}

func NewPeak(quantity string) *Peak {
	return &Peak{quantity: quantity}
}

func (p *Peak) Name() string { return "peak_" + p.quantity }

func (p *Peak) Observe(f sim.Frame) {
	if v, ok := f.Quantity(p.quantity); ok {
		p.peak = math.Max(p.peak, math.Abs(v))
	}
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() { p.peak = 0 }
