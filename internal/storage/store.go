// Package storage keeps headless run traces on disk: one directory per run
// with a JSON metadata file and a CSV state table.
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

	"github.com/san-kum/swing/internal/dynamo"
)

var errNoResult = errors.New("storage: no recorded result")

var csvHeader = []string{"step", "theta1", "theta2", "omega1", "omega2", "energy"}

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
	ID        string             `json:"id"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Steps     int                `json:"steps"`
	Params    dynamo.Params      `json:"params"`
	Initial   dynamo.State       `json:"initial"`
	Final     dynamo.State       `json:"final"`
	Metrics   map[string]float64 `json:"metrics"`
	Errors    []string           `json:"errors,omitempty"`
}

// NewMetadata summarises a finished run.
func NewMetadata(preset string, p dynamo.Params, result *dynamo.Result) RunMetadata {
	meta := RunMetadata{
		Preset:    preset,
		Timestamp: time.Now(),
		Steps:     result.StepsTaken,
		Params:    p,
		Metrics:   result.Metrics,
	}
	if n := len(result.States); n > 0 {
		meta.Initial = result.States[0]
		meta.Final = result.States[n-1]
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}
	return meta
}

// Save writes meta and the recorded states under a fresh run directory and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	meta.ID = runID

	err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		return ExportJSON(w, meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, "states.csv"), func(w io.Writer) error {
			return WriteCSV(w, result)
		})
	}
	if err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save %s: %w", runID, err)
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
		return err
	}
	return f.Close()
}

// ExportJSON writes meta as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// WriteCSV writes one row per recorded state. Row i is the state after i
// steps; row 0 is the initial state.
func WriteCSV(w io.Writer, result *dynamo.Result) error {
	if result == nil {
		return errNoResult
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for i, x := range result.States {
		row := []string{strconv.Itoa(i)}
		for _, v := range x.Slice() {
			row = append(row, strconv.FormatFloat(v, 'f', 9, 64))
		}
		energy := ""
		if i < len(result.Energies) {
			energy = strconv.FormatFloat(result.Energies[i], 'f', 6, 64)
		}
		row = append(row, energy)

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) ([]dynamo.State, []float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []dynamo.State{}, []float64{}, nil
	}

	states := make([]dynamo.State, 0, len(records)-1)
	energies := make([]float64, 0, len(records)-1)
	for line, record := range records[1:] {
		var v [5]float64
		for j := range v {
			if j == 4 && record[j+1] == "" {
				continue
			}
			v[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", line+2, err)
			}
		}
		states = append(states, dynamo.State{Theta1: v[0], Theta2: v[1], Omega1: v[2], Omega2: v[3]})
		energies = append(energies, v[4])
	}
	return states, energies, nil
}

// List returns the stored runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([]dynamo.State, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}
