// Package config provides configuration loading and access for the demo
// simulations built on the habitat engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all demo simulation parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Engine    EngineConfig    `yaml:"engine"`
	Run       RunConfig       `yaml:"run"`
	Screen    ScreenConfig    `yaml:"screen"`
	Seeding   SeedingConfig   `yaml:"seeding"`
	Rule      RuleConfig      `yaml:"rule"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WorldConfig holds the environment grid dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// EngineConfig holds engine execution parameters.
type EngineConfig struct {
	// Workers is the number of parallel lanes; values below 2 run the
	// sequential engine.
	Workers int `yaml:"workers"`
}

// RunConfig holds run control parameters.
type RunConfig struct {
	Seed           int64 `yaml:"seed"`            // 0 = time-based
	MaxGenerations int   `yaml:"max_generations"` // 0 = unlimited
}

// ScreenConfig holds display settings for windowed runs.
type ScreenConfig struct {
	CellSide  int `yaml:"cell_side"` // pixels per grid cell
	TargetFPS int `yaml:"target_fps"`
}

// SeedingConfig controls how the initial population is generated.
type SeedingConfig struct {
	Fill           float64 `yaml:"fill"`  // live fraction for uniform seeding
	Noise          bool    `yaml:"noise"` // use perlin noise instead of uniform sampling
	NoiseAlpha     float64 `yaml:"noise_alpha"`
	NoiseBeta      float64 `yaml:"noise_beta"`
	NoiseOctaves   int     `yaml:"noise_octaves"`
	NoiseScale     float64 `yaml:"noise_scale"`     // cells per noise unit
	NoiseThreshold float64 `yaml:"noise_threshold"` // noise above this seeds a live cell
}

// RuleConfig selects the automaton rule for the demos.
type RuleConfig struct {
	Elementary uint8  `yaml:"elementary"` // rule byte for the 1-D automaton
	Script     string `yaml:"script"`     // tengo rule script path, overrides built-ins
}

// TelemetryConfig holds census collection parameters.
type TelemetryConfig struct {
	Window    int    `yaml:"window"`     // generations per stats window
	OutputDir string `yaml:"output_dir"` // CSV output directory, empty = disabled
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// unmarshal into the same struct, only fields present in the file
		// are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
