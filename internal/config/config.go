package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/hinfsyn/internal/lti"
	"github.com/san-kum/hinfsyn/internal/optim"
	"gopkg.in/yaml.v3"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultGamma     = 10.0
	DefaultDt        = 0.01
	DefaultDuration  = 10.0
	DefaultAmplitude = 1.0
)

var ErrInvalid = errors.New("config: invalid problem")

// Config is a synthesis problem file.
type Config struct {
	Name      string          `yaml:"name"`
	Plant     PlantConfig     `yaml:"plant"`
	NCon      int             `yaml:"ncon"`
	NMeas     int             `yaml:"nmeas"`
	Gamma     float64         `yaml:"gamma"`
	Tolerance float64         `yaml:"tol,omitempty"`
	Bisection BisectionConfig `yaml:"bisection"`
	Sim       SimConfig       `yaml:"sim"`
}

// PlantConfig holds A, B, C, D as lists of rows.
type PlantConfig struct {
	A [][]float64 `yaml:"a,flow"`
	B [][]float64 `yaml:"b,flow"`
	C [][]float64 `yaml:"c,flow"`
	D [][]float64 `yaml:"d,flow"`
}

type BisectionConfig struct {
	Lo      float64 `yaml:"lo"`
	Hi      float64 `yaml:"hi"`
	Tol     float64 `yaml:"tol"`
	MaxIter int     `yaml:"max_iter"`
}

type SimConfig struct {
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	// Channel is the exogenous input driven by the step.
	Channel   int     `yaml:"channel"`
	Amplitude float64 `yaml:"amplitude"`
}

func DefaultConfig() *Config {
	b := optim.DefaultBisection()
	return &Config{
		NCon:  1,
		NMeas: 1,
		Gamma: DefaultGamma,
		Bisection: BisectionConfig{
			Lo:      b.Lo,
			Hi:      b.Hi,
			Tol:     b.Tol,
			MaxIter: b.MaxIter,
		},
		Sim: SimConfig{
			Integrator: "rk4",
			Dt:         DefaultDt,
			Duration:   DefaultDuration,
			Amplitude:  DefaultAmplitude,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// System builds the plant and checks that its blocks agree.
func (c *Config) System() (*lti.System, error) {
	var mats [4]*mat.Dense
	for i, rows := range [][][]float64{c.Plant.A, c.Plant.B, c.Plant.C, c.Plant.D} {
		m, err := Dense(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: plant.%c: %v", ErrInvalid, "abcd"[i], err)
		}
		mats[i] = m
	}
	sys, err := lti.New(mats[0], mats[1], mats[2], mats[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return sys, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Gamma < 0:
		return fmt.Errorf("%w: gamma %g is negative", ErrInvalid, c.Gamma)
	case c.NCon < 1 || c.NMeas < 1:
		return fmt.Errorf("%w: ncon=%d nmeas=%d", ErrInvalid, c.NCon, c.NMeas)
	case c.Sim.Dt <= 0 || c.Sim.Duration <= 0:
		return fmt.Errorf("%w: sim dt=%g duration=%g", ErrInvalid, c.Sim.Dt, c.Sim.Duration)
	}
	sys, err := c.System()
	if err != nil {
		return err
	}
	if _, err := sys.Partition(c.NCon, c.NMeas); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) BisectionSearch() optim.Bisection {
	return optim.Bisection{
		Lo:      c.Bisection.Lo,
		Hi:      c.Bisection.Hi,
		Tol:     c.Bisection.Tol,
		MaxIter: c.Bisection.MaxIter,
	}
}

// Dense converts a list of equal-length rows to a matrix.
func Dense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("empty matrix")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d entries, want %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// Rows is the inverse of Dense.
func Rows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}
