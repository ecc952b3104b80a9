package config

import "sort"

// Presets are benchmark plants. Each keeps the last ncon inputs as controls
// and the last nmeas outputs as measurements.
var Presets = map[string]*Config{
	"lag": {
		Name: "lag",
		Plant: PlantConfig{
			A: [][]float64{{-1}},
			B: [][]float64{{1, 1}},
			C: [][]float64{{1}, {1}},
			D: [][]float64{{0, 1}, {1, 0}},
		},
		NCon: 1, NMeas: 1, Gamma: 2,
	},
	"mass_spring": {
		Name: "mass_spring",
		Plant: PlantConfig{
			A: [][]float64{{0, 1}, {-1, -0.2}},
			B: [][]float64{{0, 0}, {1, 1}},
			C: [][]float64{{1, 0}, {1, 0}},
			D: [][]float64{{0, 1}, {1, 0}},
		},
		NCon: 1, NMeas: 1, Gamma: 5,
	},
	"slicot_example": {
		Name: "slicot_example",
		Plant: PlantConfig{
			A: [][]float64{
				{-1, 0, 4, 5, -3, -2},
				{-2, 4, -7, -2, 0, 3},
				{-6, 9, -5, 0, 2, -1},
				{-8, 4, 7, -1, -3, 0},
				{2, 5, 8, -9, 1, -4},
				{3, -5, 8, 0, 2, -6},
			},
			B: [][]float64{
				{-3, -4, -2, 1, 0},
				{2, 0, 1, -5, 2},
				{-5, -7, 0, 7, -2},
				{4, -6, 1, 1, -2},
				{-3, 9, -8, 0, 5},
				{1, -2, 3, -6, -2},
			},
			C: [][]float64{
				{1, -1, 2, -4, 0, -3},
				{-3, 0, 5, -1, 1, 1},
				{-7, 5, 0, -8, 2, -2},
				{9, -3, 4, 0, 3, 7},
				{0, 1, -2, 1, -6, -2},
			},
			D: [][]float64{
				{1, -2, -3, 0, 0},
				{0, 4, 0, 1, 0},
				{5, -3, -4, 0, 1},
				{0, 1, 0, 1, -3},
				{0, 0, 1, 7, 1},
			},
		},
		NCon: 2, NMeas: 2, Gamma: 15,
	},
}

// GetPreset returns a copy of the named preset with defaults filled in, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = p.Name
	cfg.Plant = p.Plant
	cfg.NCon, cfg.NMeas, cfg.Gamma = p.NCon, p.NMeas, p.Gamma
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
