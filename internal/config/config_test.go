package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "rk4", cfg.Sim.Integrator)
	assert.Positive(t, cfg.Sim.Dt)
	assert.Positive(t, cfg.Sim.Duration)
	assert.Equal(t, 1, cfg.NCon)
	assert.Equal(t, 1, cfg.NMeas)
	assert.Less(t, cfg.Bisection.Lo, cfg.Bisection.Hi)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.yaml")
	cfg := GetPreset("mass_spring")
	cfg.Tolerance = 1e-8
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.yaml")
	data := "name: tiny\nplant:\n  a: [[-1]]\n  b: [[1, 1]]\n  c: [[1], [1]]\n  d: [[0, 1], [1, 0]]\ngamma: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Gamma)
	assert.Equal(t, 1, cfg.NCon)
	assert.Equal(t, DefaultDt, cfg.Sim.Dt)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSystem(t *testing.T) {
	sys, err := GetPreset("slicot_example").System()
	require.NoError(t, err)

	n, m, p := sys.Dims()
	assert.Equal(t, 6, n)
	assert.Equal(t, 5, m)
	assert.Equal(t, 5, p)
	assert.Equal(t, -7.0, sys.A.At(1, 2))
	assert.Equal(t, Rows(sys.D), Presets["slicot_example"].Plant.D)
}

func TestSystemRagged(t *testing.T) {
	cfg := GetPreset("lag")
	cfg.Plant.D = [][]float64{{0, 1}, {1}}

	_, err := cfg.System()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSystemInconsistent(t *testing.T) {
	cfg := GetPreset("lag")
	cfg.Plant.B = [][]float64{{1, 1}, {0, 0}}

	_, err := cfg.System()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative gamma", func(c *Config) { c.Gamma = -1 }},
		{"zero ncon", func(c *Config) { c.NCon = 0 }},
		{"ncon too large", func(c *Config) { c.NCon = 3 }},
		{"zero dt", func(c *Config) { c.Sim.Dt = 0 }},
		{"empty plant", func(c *Config) { c.Plant.A = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetPreset("mass_spring")
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.Equal(t, name, cfg.Name)
		assert.NoError(t, cfg.Validate(), name)
	}
}

func TestGetPresetNotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresetsSorted(t *testing.T) {
	assert.Equal(t, []string{"lag", "mass_spring", "slicot_example"}, ListPresets())
}

func TestBisectionSearch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bisection.Hi = 42
	b := cfg.BisectionSearch()
	assert.Equal(t, 42.0, b.Hi)
	assert.Equal(t, cfg.Bisection.MaxIter, b.MaxIter)
}

func TestEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HINFSYN_GAMMA=4.5\nHINFSYN_NCON=2\nOTHER=1\n"), 0644))
	t.Setenv("HINFSYN_NCON", "1")

	env, err := Env(path)
	require.NoError(t, err)
	assert.Equal(t, "4.5", env["HINFSYN_GAMMA"])
	assert.Equal(t, "1", env["HINFSYN_NCON"])
	assert.NotContains(t, env, "OTHER")
}

func TestEnvMissingFile(t *testing.T) {
	_, err := Env(filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(map[string]string{
		"HINFSYN_GAMMA": "7.25",
		"HINFSYN_NMEAS": "2",
		"HINFSYN_TOL":   "1e-6",
	})
	require.NoError(t, err)
	assert.Equal(t, 7.25, cfg.Gamma)
	assert.Equal(t, 2, cfg.NMeas)
	assert.Equal(t, 1e-6, cfg.Tolerance)

	assert.Error(t, cfg.ApplyEnv(map[string]string{"HINFSYN_NCON": "two"}))
}
