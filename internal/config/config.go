// Package config carries the caller-owned execution configuration: limits and
// behavioral toggles consumed, never mutated, by the execution core.
package config

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// RasqalConfig is the execution configuration. Its zero value imposes no
// limits and selects the default evaluation strategy.
type RasqalConfig struct {
	// StepCountLimit caps the number of executed steps before the run is
	// forcibly failed. Nil means unlimited.
	StepCountLimit *int64 `yaml:"step_count_limit"`

	// ActivateSolver switches execution to the heavier full-distribution
	// evaluation strategy.
	ActivateSolver bool `yaml:"activate_solver"`

	// TraceProjections enables diagnostic projection logging per quantum
	// operation.
	TraceProjections bool `yaml:"trace_projections"`

	// Seed drives measurement sampling in the default strategy.
	Seed int64 `yaml:"seed"`
}

// Default returns a configuration with no limits and default strategy.
func Default() *RasqalConfig {
	return &RasqalConfig{}
}

// WithStepCountLimit sets the step ceiling.
func (c *RasqalConfig) WithStepCountLimit(limit int64) *RasqalConfig {
	c.StepCountLimit = &limit
	return c
}

// WithActivateSolver enables the solver strategy.
func (c *RasqalConfig) WithActivateSolver() *RasqalConfig {
	c.ActivateSolver = true
	return c
}

// WithTraceProjections enables projection tracing.
func (c *RasqalConfig) WithTraceProjections() *RasqalConfig {
	c.TraceProjections = true
	return c
}

// LoadFile reads a YAML configuration file.
func LoadFile(fsys afero.Fs, path string) (*RasqalConfig, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
