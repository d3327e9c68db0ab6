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
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/heatsim/internal/analytic"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/rod"
	"github.com/san-kum/heatsim/internal/snapshot"
	"github.com/san-kum/heatsim/internal/stability"
)

const (
	metadataFile  = "metadata.json"
	fieldFile     = "field.csv"
	snapshotsFile = "snapshots.csv"
)

var ErrNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Scheme      string             `json:"scheme"`
	Timestamp   time.Time          `json:"timestamp"`
	Length      float64            `json:"length"`
	Alpha       float64            `json:"alpha"`
	TFinal      float64            `json:"t_final"`
	Points      int                `json:"nx"`
	Dt          float64            `json:"dt"`
	Left        float64            `json:"t_left"`
	Right       float64            `json:"t_right"`
	Fourier     float64            `json:"fourier"`
	Unstable    bool               `json:"unstable"`
	Steps       int                `json:"steps"`
	Snapshots   int                `json:"snapshots"`
	Verified    bool               `json:"verified"`
	MaxError    float64            `json:"max_error,omitempty"`
	ElapsedSecs float64            `json:"elapsed_seconds"`
	Metrics     map[string]float64 `json:"metrics"`
}

// FieldData is the position-paired content of field.csv.
type FieldData struct {
	Positions  []float64
	Initial    rod.Field
	Final      rod.Field
	Analytical rod.Field
}

func metadataFor(id string, rep *experiment.Report) RunMetadata {
	p := rep.Params
	return RunMetadata{
		ID:          id,
		Name:        rep.Name,
		Scheme:      rep.Scheme,
		Timestamp:   time.Now(),
		Length:      p.Length,
		Alpha:       p.Alpha,
		TFinal:      p.TFinal,
		Points:      p.Points,
		Dt:          p.Dt,
		Left:        p.Boundary.Left,
		Right:       p.Boundary.Right,
		Fourier:     rep.Stability.Fourier,
		Unstable:    rep.Stability.Exceeded,
		Steps:       rep.Steps,
		Snapshots:   len(rep.Snapshots),
		Verified:    rep.Verified(),
		MaxError:    rep.MaxError,
		ElapsedSecs: rep.Elapsed.Seconds(),
		Metrics:     rep.Metrics,
	}
}

// Save writes the report under a fresh run ID and returns it. A failed save
// leaves no run directory behind.
func (s *Store) Save(rep *experiment.Report) (_ string, err error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	meta := metadataFor(runID, rep)
	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, fieldFile), func(w io.Writer) error {
		return WriteFieldCSV(w, rep)
	}); err != nil {
		return "", err
	}

	if len(rep.Snapshots) > 0 {
		if err := writeFile(filepath.Join(runDir, snapshotsFile), func(w io.Writer) error {
			return WriteSnapshotsCSV(w, rep.Snapshots)
		}); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// List returns the stored runs, newest first.
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadField(runID string) (*FieldData, error) {
	records, err := s.readCSV(runID, fieldFile)
	if err != nil {
		return nil, err
	}

	data := &FieldData{}
	if len(records) < 2 {
		return data, nil
	}
	withAnalytical := len(records[0]) > 3

	for _, record := range records[1:] {
		vals, err := parseRow(record)
		if err != nil {
			return nil, err
		}
		if len(vals) < 3 {
			continue
		}
		data.Positions = append(data.Positions, vals[0])
		data.Initial = append(data.Initial, vals[1])
		data.Final = append(data.Final, vals[2])
		if withAnalytical && len(vals) > 3 {
			data.Analytical = append(data.Analytical, vals[3])
		}
	}

	return data, nil
}

// LoadSnapshots reads the sampled series. A run saved without sampling yields an empty series.
func (s *Store) LoadSnapshots(runID string) (snapshot.Series, error) {
	records, err := s.readCSV(runID, snapshotsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if _, merr := s.Load(runID); merr != nil {
				return nil, merr
			}
			return snapshot.Series{}, nil
		}
		return nil, err
	}

	series := make(snapshot.Series, 0, len(records))
	for i := 1; i < len(records); i++ {
		vals, err := parseRow(records[i])
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			continue
		}
		series = append(series, snapshot.Frame{Time: vals[0], Field: rod.Field(vals[1:])})
	}

	return series, nil
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseRow(record []string) ([]float64, error) {
	vals := make([]float64, 0, len(record))
	for _, cell := range record {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", cell, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// LoadReport rebuilds the report of a stored run. The initial condition
// function is not persisted; Initial holds the sampled initial field instead.
func (s *Store) LoadReport(runID string) (*experiment.Report, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	field, err := s.LoadField(runID)
	if err != nil {
		return nil, err
	}
	series, err := s.LoadSnapshots(runID)
	if err != nil {
		return nil, err
	}

	p := rod.Params{
		Length:   meta.Length,
		Alpha:    meta.Alpha,
		TFinal:   meta.TFinal,
		Points:   meta.Points,
		Dt:       meta.Dt,
		Boundary: rod.Boundary{Left: meta.Left, Right: meta.Right},
	}
	rep := &experiment.Report{
		Name:      meta.Name,
		Scheme:    meta.Scheme,
		Params:    p,
		Positions: field.Positions,
		Initial:   field.Initial,
		Final:     field.Final,
		Steps:     meta.Steps,
		Stability: stability.ForParams(p),
		Metrics:   meta.Metrics,
		Elapsed:   time.Duration(meta.ElapsedSecs * float64(time.Second)),
	}
	if len(series) > 0 {
		rep.Snapshots = series
	}
	if meta.Verified {
		rep.Analytical = field.Analytical
		rep.MaxError = meta.MaxError
		rep.RMSError, _ = analytic.RMSError(rep.Final, rep.Analytical)
	}
	return rep, nil
}
