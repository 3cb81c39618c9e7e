package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgayatri23/gridcol/internal/tasks"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Backend = "fpga" }},
		{"negative max_l", func(c *Config) { c.MaxL = -1 }},
		{"max_l too large", func(c *Config) { c.MaxL = 99 }},
		{"zero eps_rho", func(c *Config) { c.EpsRho = 0 }},
		{"negative rel_cutoff", func(c *Config) { c.RelCutoff = -5 }},
		{"bad open_bounds", func(c *Config) { c.OpenBounds = "wrap" }},
		{"bad operator", func(c *Config) { c.Operator = "curl" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")

	cfg := Default()
	cfg.Backend = "cpu"
	cfg.Workers = 6
	cfg.EpsRho = 1e-10
	cfg.OpenBounds = "truncate"
	cfg.Operator = "laplacian"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", got, cfg)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("backend: reference\nworkers: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "reference" || cfg.Workers != 2 {
		t.Errorf("explicit fields lost: %+v", cfg)
	}
	if cfg.EpsRho != DefaultEpsRho || cfg.RelCutoff != DefaultRelCutoff || cfg.OpenBounds != "reject" {
		t.Errorf("unset fields did not default: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("eps_rho: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid config loaded without error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded without error")
	}
}

func TestTaskParams(t *testing.T) {
	cfg := Default()
	p := cfg.TaskParams()
	if p.OpenBounds != tasks.OpenReject {
		t.Errorf("default open bounds %v, want reject", p.OpenBounds)
	}
	if p.EpsRho != cfg.EpsRho || p.RelCutoff != cfg.RelCutoff || p.MaxL != cfg.MaxL {
		t.Errorf("params %+v do not mirror config %+v", p, cfg)
	}

	cfg.OpenBounds = "truncate"
	if cfg.TaskParams().OpenBounds != tasks.OpenTruncate {
		t.Error("truncate did not map through")
	}
}
