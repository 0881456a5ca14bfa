package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/dragsim/internal/integrators"
	"github.com/san-kum/dragsim/internal/physics"
	"github.com/san-kum/dragsim/internal/trajectory"
)

const (
	DefaultCSV = "comparison.csv"
	DefaultSVG = "trajectory_comparison.svg"
)

type Config struct {
	Params     physics.Params `yaml:"params" toml:"params"`
	Dt         float64        `yaml:"dt" toml:"dt"`
	TMax       float64        `yaml:"t_max" toml:"t_max"`
	NPoints    int            `yaml:"n_points" toml:"n_points"`
	Integrator string         `yaml:"integrator" toml:"integrator"`
	ExactApex  bool           `yaml:"exact_apex" toml:"exact_apex"`
	Outputs    OutputConfig   `yaml:"outputs" toml:"outputs"`
	Sweep      SweepConfig    `yaml:"sweep" toml:"sweep"`
}

type OutputConfig struct {
	CSV string `yaml:"csv" toml:"csv"`
	SVG string `yaml:"svg" toml:"svg"`
}

type SweepConfig struct {
	CMin  float64 `yaml:"c_min" toml:"c_min"`
	CMax  float64 `yaml:"c_max" toml:"c_max"`
	Steps int     `yaml:"steps" toml:"steps"`
}

func DefaultConfig() *Config {
	return &Config{
		Params:     physics.DefaultParams(),
		Dt:         trajectory.DefaultDt,
		TMax:       trajectory.DefaultTMax,
		NPoints:    trajectory.DefaultPoints,
		Integrator: integrators.Default,
		Outputs: OutputConfig{
			CSV: DefaultCSV,
			SVG: DefaultSVG,
		},
		Sweep: SweepConfig{
			CMin:  0.0,
			CMax:  0.5,
			Steps: 11,
		},
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads a YAML file, or TOML when the extension is .toml. Keys absent
// from the file keep their default values.
func Load(path string) (*Config, error) {
	return LoadOnto(path, DefaultConfig())
}

// LoadOnto decodes the file over a copy of base, so keys absent from the
// file keep the values of base. base itself is not modified.
func LoadOnto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cp := *base
	cfg := &cp
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	if isTOML(path) {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := toml.NewEncoder(file).Encode(cfg); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if !finitePositive(c.Dt) {
		return fmt.Errorf("dt must be positive and finite, got %g", c.Dt)
	}
	if !finitePositive(c.TMax) {
		return fmt.Errorf("t_max must be positive and finite, got %g", c.TMax)
	}
	if c.NPoints < 2 {
		return fmt.Errorf("n_points must be at least 2, got %d", c.NPoints)
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return err
	}
	if c.Sweep.Steps < 1 {
		return fmt.Errorf("sweep steps must be positive, got %d", c.Sweep.Steps)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func (c *Config) GalileoOptions() trajectory.GalileoOptions {
	return trajectory.GalileoOptions{NPoints: c.NPoints, ExactApex: c.ExactApex}
}

// NewtonOptions builds run options with a fresh integrator.
func (c *Config) NewtonOptions() (trajectory.NewtonOptions, error) {
	integ, err := integrators.ByName(c.Integrator)
	if err != nil {
		return trajectory.NewtonOptions{}, err
	}
	return trajectory.NewtonOptions{
		Dt:         c.Dt,
		TMax:       c.TMax,
		Integrator: integ,
		ExactApex:  c.ExactApex,
	}, nil
}
