// Package config gathers the parameters of a run from defaults, a YAML file,
// a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/hygienesim/inspection"
)

// EnvPrefix prefixes every environment variable read by ParseEnv.
const EnvPrefix = "HYGIENESIM_"

// DefaultDotEnv is the .env file read when no other is given.
const DefaultDotEnv = ".env"

// Config holds the parameters of a run.
type Config struct {
	Height  int     `yaml:"height" env:"HEIGHT"`
	Width   int     `yaml:"width" env:"WIDTH"`
	Density float64 `yaml:"density" env:"DENSITY"`

	// Seed of the random source. Zero picks a time-based seed.
	Seed int64 `yaml:"seed" env:"SEED"`

	// Periods is the number of weeks to run.
	Periods int `yaml:"periods" env:"PERIODS"`

	// Output is the name of the recording database. Empty generates one.
	Output   string `yaml:"output" env:"OUTPUT"`
	NoRecord bool   `yaml:"no_record" env:"NO_RECORD"`
	Verbose  bool   `yaml:"verbose" env:"VERBOSE"`
}

// Default returns the built-in parameters: a 20 x 20 grid at density 0.1
// run for 100 weeks.
func Default() Config {
	return Config{
		Height:  20,
		Width:   20,
		Density: 0.1,
		Periods: 100,
	}
}

// Load builds a configuration from the defaults, then the YAML file if path
// is not empty, then the .env file, then the environment.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		err := LoadFile(path, &c)
		if err != nil {
			return c, err
		}
	}

	err := LoadDotEnv()
	if err != nil {
		return c, err
	}

	err = ParseEnv(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}

// LoadFile overlays the fields present in a YAML file onto c. Unknown fields
// are rejected.
func LoadFile(path string, c *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	err = dec.Decode(c)
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	return nil
}

// LoadDotEnv loads variables from .env files into the environment without
// overriding variables that are already set. With no argument it reads
// DefaultDotEnv and tolerates its absence.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		err := godotenv.Load(DefaultDotEnv)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("load %s: %w", DefaultDotEnv, err)
		}

		return nil
	}

	err := godotenv.Load(paths...)
	if err != nil {
		return fmt.Errorf("load env files: %w", err)
	}

	return nil
}

// ParseEnv overlays the HYGIENESIM_* environment variables onto c.
func ParseEnv(c *Config) error {
	err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

// Model returns the construction parameters of the model.
func (c Config) Model() inspection.Config {
	return inspection.Config{
		Height:  c.Height,
		Width:   c.Width,
		Density: c.Density,
	}
}

// Validate checks that a run can be built from c.
func (c Config) Validate() error {
	err := c.Model().Validate()
	if err != nil {
		return err
	}

	if c.Periods <= 0 {
		return fmt.Errorf("%w: periods must be positive, got %d",
			inspection.ErrInvalidConfiguration, c.Periods)
	}

	return nil
}
