package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const EnvPrefix = "HINFSYN_"

// Env reads HINFSYN_* settings from an optional dotenv file, with the
// process environment taking precedence.
func Env(dotenv string) (map[string]string, error) {
	env := map[string]string{}
	if dotenv != "" {
		vals, err := godotenv.Read(dotenv)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		for k, v := range vals {
			if strings.HasPrefix(k, EnvPrefix) {
				env[k] = v
			}
		}
	}
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides problem settings from HINFSYN_GAMMA, HINFSYN_NCON,
// HINFSYN_NMEAS and HINFSYN_TOL.
func (c *Config) ApplyEnv(env map[string]string) error {
	floats := map[string]*float64{
		"GAMMA": &c.Gamma,
		"TOL":   &c.Tolerance,
	}
	for key, dst := range floats {
		if v, ok := env[EnvPrefix+key]; ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
			}
			*dst = f
		}
	}
	ints := map[string]*int{
		"NCON":  &c.NCon,
		"NMEAS": &c.NMeas,
	}
	for key, dst := range ints {
		if v, ok := env[EnvPrefix+key]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}
	return nil
}
