package config

import (
	"fmt"
	"os"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPreset      = "jovian"
	DefaultDt          = physics.DefaultDt
	DefaultSteps       = 1000
	DefaultReference   = 0
	DefaultSampleEvery = 0
)

type Config struct {
	Preset      string  `yaml:"preset"`
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	Reference   int     `yaml:"reference"`
	SampleEvery int     `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:      DefaultPreset,
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		Reference:   DefaultReference,
		SampleEvery: DefaultSampleEvery,
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

// Sim returns the run parameters of c.
func (c *Config) Sim() dynamo.Config {
	return dynamo.Config{
		Dt:          c.Dt,
		Steps:       c.Steps,
		Reference:   c.Reference,
		SampleEvery: c.SampleEvery,
	}
}

// Bodies returns a fresh copy of the preset's initial conditions.
func (c *Config) Bodies() ([]physics.Body, error) {
	bodies := GetPreset(c.Preset)
	if bodies == nil {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, c.Preset, ListPresets())
	}
	return bodies, nil
}

func (c *Config) Validate() error {
	if GetPreset(c.Preset) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, c.Preset)
	}
	return c.Sim().Validate()
}
