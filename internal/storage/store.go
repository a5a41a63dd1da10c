package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/san-kum/stepsim/internal/dynamo"
	"github.com/san-kum/stepsim/internal/sim"
)

// ErrNoColumn is returned by LoadSeries for a column the run did not record.
var ErrNoColumn = errors.New("storage: no such column")

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	System       string             `json:"system"`
	Integrator   string             `json:"integrator"`
	Timestamp    time.Time          `json:"timestamp"`
	InitialTime  float64            `json:"initial_time"`
	Step         float64            `json:"step"`
	Duration     float64            `json:"duration"`
	InitialState []float64          `json:"initial_state"`
	Params       map[string]float64 `json:"params,omitempty"`
	Steps        int                `json:"steps"`
	EnergyDrift  float64            `json:"energy_drift"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// Save writes meta and the frames under a new run directory and returns
// its id. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, frames []sim.Frame) (string, error) {
	ts := s.now()
	meta.ID = fmt.Sprintf("%s_%s", meta.System, ts.UTC().Format("20060102T150405.000000"))
	meta.Timestamp = ts
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := WriteCSV(csvFile, frames); err != nil {
		return "", err
	}

	glog.V(1).Infof("storage: saved run %s with %d frames", meta.ID, len(frames))
	return meta.ID, nil
}

// WriteCSV writes one row per frame: time, the state components x0..xn and
// then every quantity of the first frame by name.
func WriteCSV(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)
	if len(frames) == 0 {
		cw.Flush()
		return cw.Error()
	}

	header := []string{"time"}
	for i := range frames[0].State {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	for _, q := range frames[0].Quantities {
		header = append(header, q.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, 0, len(header))
	for _, f := range frames {
		row = append(row[:0], formatFloat(f.Time))
		for _, v := range f.State {
			row = append(row, formatFloat(v))
		}
		for _, q := range f.Quantities {
			row = append(row, formatFloat(q.Value))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			glog.V(2).Infof("storage: skipping %s: %v", entry.Name(), err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// Table is the content of a states.csv file.
type Table struct {
	Header []string
	Rows   [][]float64
}

func (s *Store) LoadTable(runID string) (*Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses a file written by WriteCSV.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read states: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	t := &Table{Header: records[0], Rows: make([][]float64, 0, len(records)-1)}
	for i, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("states line %d column %q: %w", i+2, t.Header[j], err)
			}
			row[j] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Column returns one column by header name.
func (t *Table) Column(name string) ([]float64, error) {
	for j, h := range t.Header {
		if h == name {
			col := make([]float64, len(t.Rows))
			for i, row := range t.Rows {
				col[i] = row[j]
			}
			return col, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrNoColumn)
}

// States returns the state vectors and their times.
func (t *Table) States() ([][]float64, []float64) {
	var idx []int
	for j, h := range t.Header {
		if isStateColumn(h) {
			idx = append(idx, j)
		}
	}

	states := make([][]float64, 0, len(t.Rows))
	times := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		times = append(times, row[0])
		state := make([]float64, len(idx))
		for k, j := range idx {
			state[k] = row[j]
		}
		states = append(states, state)
	}
	return states, times
}

func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	t, err := s.LoadTable(runID)
	if err != nil {
		return nil, nil, err
	}
	states, times := t.States()
	return states, times, nil
}

// LoadSeries returns the time column and one named column of a run.
func (s *Store) LoadSeries(runID, column string) ([]float64, []float64, error) {
	t, err := s.LoadTable(runID)
	if err != nil {
		return nil, nil, err
	}
	times, err := t.Column("time")
	if err != nil {
		return nil, nil, err
	}
	values, err := t.Column(column)
	if err != nil {
		return nil, nil, err
	}
	return times, values, nil
}

// Frames rebuilds frames from the table. Columns that are not time or a
// state component come back as quantities, without symbol or unit.
func (t *Table) Frames() []sim.Frame {
	states, times := t.States()
	var extra []int
	for j, h := range t.Header {
		if j > 0 && !isStateColumn(h) {
			extra = append(extra, j)
		}
	}

	frames := make([]sim.Frame, len(t.Rows))
	for i, row := range t.Rows {
		f := sim.Frame{Step: i + 1, Time: times[i], State: states[i]}
		for _, j := range extra {
			f.Quantities = append(f.Quantities, dynamo.Quantity{Name: t.Header[j], Value: row[j]})
		}
		frames[i] = f
	}
	return frames
}

func isStateColumn(h string) bool {
	if !strings.HasPrefix(h, "x") {
		return false
	}
	_, err := strconv.Atoi(h[1:])
	return err == nil
}
