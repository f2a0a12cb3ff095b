// Package config loads runtime settings from a TOML file.
//
//	partial      = "truncate"   # or "strict"
//	workers      = 0            # 0 or 1 runs sequentially
//	eval_timeout = "5s"
//	mesh_cells   = 200
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/tricenter/pkg/centroid"
	"github.com/chazu/tricenter/pkg/engine"
	"github.com/chazu/tricenter/pkg/kernel/sdfx"
)

// Config holds every tunable the host exposes.
type Config struct {
	Partial     string `toml:"partial"`
	Workers     int    `toml:"workers"`
	EvalTimeout string `toml:"eval_timeout"`
	MeshCells   int    `toml:"mesh_cells"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Partial:     centroid.Truncate.String(),
		Workers:     0,
		EvalTimeout: engine.EvalTimeout.String(),
		MeshCells:   sdfx.DefaultMeshCells,
	}
}

// Load reads and validates the TOML file at path. Keys missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML on top of Default and validates the result. Unknown
// keys are an error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown keys: %s", strict.String())
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := c.PartialPolicy(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.MeshCells < 1 {
		return fmt.Errorf("mesh_cells must be positive, got %d", c.MeshCells)
	}
	return nil
}

// PartialPolicy maps the partial key onto a centroid policy.
func (c *Config) PartialPolicy() (centroid.PartialPolicy, error) {
	switch c.Partial {
	case "", centroid.Truncate.String():
		return centroid.Truncate, nil
	case centroid.Strict.String():
		return centroid.Strict, nil
	default:
		return 0, fmt.Errorf("partial must be %q or %q, got %q",
			centroid.Truncate, centroid.Strict, c.Partial)
	}
}

// Timeout parses eval_timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.EvalTimeout == "" {
		return engine.EvalTimeout, nil
	}
	d, err := time.ParseDuration(c.EvalTimeout)
	if err != nil {
		return 0, fmt.Errorf("eval_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("eval_timeout must be positive, got %s", d)
	}
	return d, nil
}

// Calculator builds the centroid calculator these settings describe.
func (c *Config) Calculator() (*centroid.Calculator, error) {
	p, err := c.PartialPolicy()
	if err != nil {
		return nil, err
	}
	return &centroid.Calculator{Partial: p, Workers: c.Workers}, nil
}

// Encode renders the config as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
