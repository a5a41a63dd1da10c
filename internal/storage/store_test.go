package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/integrators"
	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/sim"
)

func recordRun(t *testing.T) []sim.Frame {
	t.Helper()
	rec := &Recorder{}
	s := sim.New(physics.NewDampedPendulum(), integrators.NewRK4(), nil)
	s.AddObserver(rec)
	if _, err := s.Run(context.Background(), dynamo.State{1, 0}, sim.Config{Duration: 0.4, Step: 0.04}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return rec.Frames
}

func fixedClock(ts ...time.Time) func() time.Time {
	return func() time.Time {
		t := ts[0]
		if len(ts) > 1 {
			ts = ts[1:]
		}
		return t
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	frames := recordRun(t)

	runID, err := st.Save(RunMetadata{
		System:       "pendulum",
		Integrator:   "rk4",
		Step:         0.04,
		Duration:     0.4,
		InitialState: []float64{1, 0},
		Metrics:      map[string]float64{"energy": 1.5},
	}, frames)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "pendulum_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID || meta.System != "pendulum" || meta.Metrics["energy"] != 1.5 {
		t.Errorf("metadata mismatch: %+v", meta)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 10 || len(times) != 10 {
		t.Fatalf("expected 10 rows, got %d states and %d times", len(states), len(times))
	}
	for i, f := range frames {
		if times[i] != f.Time || states[i][0] != f.State[0] || states[i][1] != f.State[1] {
			t.Fatalf("row %d does not round-trip: %v %v vs %+v", i, times[i], states[i], f)
		}
	}

	_, omega, err := st.LoadSeries(runID, physics.QuantityOmega)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if omega[9] != frames[9].State[1] {
		t.Errorf("omega column = %v, want %v", omega[9], frames[9].State[1])
	}

	if _, _, err := st.LoadSeries(runID, "nope"); !errors.Is(err, ErrNoColumn) {
		t.Errorf("expected ErrNoColumn, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	st.now = fixedClock(base.Add(time.Second), base)
	if _, err := st.Save(RunMetadata{System: "pendulum"}, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(RunMetadata{System: "oscillator"}, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].System != "oscillator" {
		t.Errorf("runs not ordered by time: %s first", runs[0].System)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{System: "pendulum"}, recordRun(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatalf("states.csv not created: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if header != "time,x0,x1,theta,theta_deg,omega,acceleration" {
		t.Errorf("header = %q", header)
	}
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("time,x0\n0,abc\n"))
	if err == nil || !strings.Contains(err.Error(), `line 2 column "x0"`) {
		t.Errorf("unexpected error %v", err)
	}

	table, err := ReadCSV(strings.NewReader(""))
	if err != nil || len(table.Rows) != 0 {
		t.Errorf("empty input: %v %+v", err, table)
	}
}

func TestExportJSON(t *testing.T) {
	frames := recordRun(t)
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{System: "pendulum", Step: 0.04}, frames); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.System != "pendulum" || data.Steps != 10 || len(data.Times) != 10 {
		t.Errorf("unexpected export: %+v", data.RunMetadata)
	}
	if got := data.Quantities[physics.QuantityThetaDeg]; len(got) != 10 {
		t.Errorf("theta_deg series has %d values", len(got))
	}
}

func TestRecorderEvery(t *testing.T) {
	rec := &Recorder{Every: 3}
	for i := 1; i <= 10; i++ {
		rec.OnFrame(sim.Frame{Step: i})
	}
	if len(rec.Frames) != 3 || rec.Frames[0].Step != 3 {
		t.Errorf("kept %+v", rec.Frames)
	}
	rec.Reset()
	if len(rec.Frames) != 0 {
		t.Error("reset kept frames")
	}
}

func TestTableFrames(t *testing.T) {
	frames := recordRun(t)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, frames); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	table, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	got := table.Frames()
	if len(got) != len(frames) {
		t.Fatalf("expected %d frames, got %d", len(frames), len(got))
	}
	for i, f := range got {
		if f.Step != i+1 || f.Time != frames[i].Time {
			t.Errorf("frame %d: step %d time %v", i, f.Step, f.Time)
		}
		if len(f.State) != 2 || f.State[1] != frames[i].State[1] {
			t.Errorf("frame %d: state %v, want %v", i, f.State, frames[i].State)
		}
		omega, ok := f.Quantity(physics.QuantityOmega)
		if !ok || omega != frames[i].State[1] {
			t.Errorf("frame %d: omega %v %v", i, omega, ok)
		}
	}
}
