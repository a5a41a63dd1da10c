package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/stepsim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Times      []float64            `json:"times"`
	States     [][]float64          `json:"states"`
	Quantities map[string][]float64 `json:"quantities,omitempty"`
}

// ExportJSON writes the run and all of its frames as one indented JSON
// document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		RunMetadata: meta,
		Times:       make([]float64, len(frames)),
		States:      make([][]float64, len(frames)),
		Quantities:  make(map[string][]float64),
	}
	for i, f := range frames {
		data.Times[i] = f.Time
		data.States[i] = f.State
		for _, q := range f.Quantities {
			data.Quantities[q.Name] = append(data.Quantities[q.Name], q.Value)
		}
	}
	if data.Steps == 0 {
		data.Steps = len(frames)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Recorder is a sim.Observer that keeps every frame it sees, for runs
// that do not keep history in the result.
type Recorder struct {
	Frames []sim.Frame
	// Every keeps one frame in Every; zero or one keeps all.
	Every int
}

func (r *Recorder) OnFrame(f sim.Frame) {
	if r.Every > 1 && f.Step%r.Every != 0 {
		return
	}
	r.Frames = append(r.Frames, f)
}

func (r *Recorder) Reset() {
	r.Frames = r.Frames[:0]
}
