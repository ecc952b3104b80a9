package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/hinfsyn/internal/config"
	"github.com/san-kum/hinfsyn/internal/dynamo"
	"github.com/san-kum/hinfsyn/internal/lti"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

const (
	metadataFile   = "metadata.json"
	problemFile    = "problem.yaml"
	controllerFile = "controller.yaml"
	statesFile     = "states.csv"
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
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Kind       string             `json:"kind"`
	Timestamp  time.Time          `json:"timestamp"`
	Gamma      float64            `json:"gamma"`
	Lower      float64            `json:"lower,omitempty"`
	Iterations int                `json:"iterations,omitempty"`
	NCon       int                `json:"ncon"`
	NMeas      int                `json:"nmeas"`
	Order      int                `json:"order"`
	RCond      [4]float64         `json:"rcond"`
	Stable     bool               `json:"stable"`
	PeakGain   float64            `json:"peak_gain,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Run is everything recorded for one synthesis. Result is optional.
type Run struct {
	Meta       RunMetadata
	Problem    *config.Config
	Controller *lti.Controller
	Result     *dynamo.Result
}

type controllerDoc struct {
	AK    [][]float64 `yaml:"ak,flow"`
	BK    [][]float64 `yaml:"bk,flow"`
	CK    [][]float64 `yaml:"ck,flow"`
	DK    [][]float64 `yaml:"dk,flow"`
	RCond []float64   `yaml:"rcond,flow"`
}

// Save writes run under a fresh id and returns it. Meta.ID and
// Meta.Timestamp are filled in when empty.
func (s *Store) Save(run *Run) (string, error) {
	if run == nil || run.Controller == nil {
		return "", errors.New("storage: run without controller")
	}
	meta := run.Meta
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	meta.Order, _, _ = run.Controller.Dims()
	meta.RCond = run.Controller.RCond
	if run.Result != nil && meta.Metrics == nil {
		meta.Metrics = run.Result.Metrics
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if run.Problem != nil {
		if err := config.Save(filepath.Join(runDir, problemFile), run.Problem); err != nil {
			return "", err
		}
	}

	k := run.Controller
	doc := controllerDoc{
		AK:    config.Rows(k.AK),
		BK:    config.Rows(k.BK),
		CK:    config.Rows(k.CK),
		DK:    config.Rows(k.DK),
		RCond: k.RCond[:],
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, controllerFile), data, 0644); err != nil {
		return "", err
	}

	if run.Result != nil {
		if err := writeStates(filepath.Join(runDir, statesFile), run.Result); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStates(path string, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(result.States) > 0 {
		header := []string{"time"}
		for i := range result.States[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
		if len(result.Outputs) > 0 {
			for i := range result.Outputs[0] {
				header = append(header, fmt.Sprintf("z%d", i))
			}
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'g', -1, 64)}
		for _, v := range result.States[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if i < len(result.Outputs) {
			for _, v := range result.Outputs[i] {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first. Unreadable entries are skipped.
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
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, metadataFile)
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadProblem(runID string) (*config.Config, error) {
	if _, err := s.read(runID, problemFile); err != nil {
		return nil, err
	}
	return config.Load(filepath.Join(s.baseDir, runID, problemFile))
}

func (s *Store) LoadController(runID string) (*lti.Controller, error) {
	data, err := s.read(runID, controllerFile)
	if err != nil {
		return nil, err
	}
	var doc controllerDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	k := &lti.Controller{}
	for _, m := range []struct {
		dst  **mat.Dense
		rows [][]float64
	}{
		{&k.AK, doc.AK},
		{&k.BK, doc.BK},
		{&k.CK, doc.CK},
		{&k.DK, doc.DK},
	} {
		if len(m.rows) == 0 {
			*m.dst = &mat.Dense{}
			continue
		}
		d, err := config.Dense(m.rows)
		if err != nil {
			return nil, fmt.Errorf("storage: %s: %w", runID, err)
		}
		*m.dst = d
	}
	copy(k.RCond[:], doc.RCond)
	return k, nil
}

// LoadStates returns the state trajectory and its time stamps.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s has no states", ErrNotFound, runID)
		}
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	nx := 0
	for _, h := range records[0][1:] {
		if len(h) > 0 && h[0] == 'x' {
			nx++
		}
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < nx+1 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		state := make([]float64, nx)
		for j := range state {
			state[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: %s: %w", runID, err)
			}
		}
		times = append(times, t)
		states = append(states, state)
	}
	return states, times, nil
}

func (s *Store) read(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if err != nil && os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return data, err
}
