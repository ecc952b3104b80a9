package experiment

import (
	"fmt"

	"github.com/san-kum/hinfsyn/internal/config"
	"github.com/san-kum/hinfsyn/internal/dynamo"
	"github.com/san-kum/hinfsyn/internal/integrators"
)

// Resolve returns the named preset, or loads ref as a problem file.
func Resolve(ref string) (*config.Config, error) {
	if cfg := config.GetPreset(ref); cfg != nil {
		return cfg, nil
	}
	cfg, err := config.Load(ref)
	if err != nil {
		return nil, fmt.Errorf("unknown problem %q (presets: %v): %w", ref, config.ListPresets(), err)
	}
	return cfg, nil
}

func Integrator(name string) (dynamo.Integrator, error) {
	integ, ok := integrators.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, integrators.Names())
	}
	return integ, nil
}
