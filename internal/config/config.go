package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rgayatri23/gridcol/internal/pab"
	"github.com/rgayatri23/gridcol/internal/tasks"
)

const (
	DefaultEpsRho    = 1e-12
	DefaultRelCutoff = 20.0
	DefaultMaxL      = pab.MaxL
)

// Config carries the engine knobs: backend choice, screening tolerance,
// level-selection scaling, and the open-boundary policy switch.
type Config struct {
	Backend    string  `yaml:"backend"`
	Workers    int     `yaml:"workers"`
	MaxL       int     `yaml:"max_l"`
	EpsRho     float64 `yaml:"eps_rho"`
	RelCutoff  float64 `yaml:"rel_cutoff"`
	OpenBounds string  `yaml:"open_bounds"`
	Operator   string  `yaml:"operator"`
}

// Default returns the conservative defaults: auto backend, reject on
// open-boundary overflow.
func Default() *Config {
	return &Config{
		Backend:    "auto",
		MaxL:       DefaultMaxL,
		EpsRho:     DefaultEpsRho,
		RelCutoff:  DefaultRelCutoff,
		OpenBounds: "reject",
		Operator:   "density",
	}
}

// Load reads a yaml config over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every knob once, at configuration time.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", "auto", "reference", "cpu", "gpu":
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.MaxL < 0 || c.MaxL > pab.MaxL {
		return fmt.Errorf("config: max_l %d outside [0,%d]", c.MaxL, pab.MaxL)
	}
	if c.EpsRho <= 0 {
		return fmt.Errorf("config: eps_rho must be positive, got %g", c.EpsRho)
	}
	if c.RelCutoff <= 0 {
		return fmt.Errorf("config: rel_cutoff must be positive, got %g", c.RelCutoff)
	}
	switch c.OpenBounds {
	case "reject", "truncate":
	default:
		return fmt.Errorf("config: open_bounds must be reject or truncate, got %q", c.OpenBounds)
	}
	if _, err := pab.ParseOperator(c.Operator); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// TaskParams maps the config onto task-list builder parameters.
func (c *Config) TaskParams() tasks.Params {
	p := tasks.Params{
		EpsRho:     c.EpsRho,
		RelCutoff:  c.RelCutoff,
		MaxL:       c.MaxL,
		OpenBounds: tasks.OpenReject,
	}
	if c.OpenBounds == "truncate" {
		p.OpenBounds = tasks.OpenTruncate
	}
	return p
}
