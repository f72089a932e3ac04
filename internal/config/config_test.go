package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "options-analytics/internal/errors"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"too few payoff points", func(c *Config) { c.Payoff.NumPoints = 1 }},
		{"inverted payoff range", func(c *Config) { c.Payoff.RangeLowFactor = 1.5 }},
		{"flip threshold out of range", func(c *Config) { c.GEX.NearFlipThresholdPct = 1.5 }},
		{"zero pin window", func(c *Config) { c.PinRisk.WindowDays = 0 }},
		{"pin weights not normalized", func(c *Config) { c.PinRisk.ProximityWeight = 0.9 }},
		{"proximity scale out of range", func(c *Config) { c.PinRisk.ProximityMaxPct = 0 }},
		{"inverted simulation bounds", func(c *Config) { c.Risk.MaxSimulations = 10 }},
		{"margin factor too high", func(c *Config) { c.Risk.ShortMarginFactor = 1.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !stderrors.Is(err, apperrors.ErrConfigInvalid) {
				t.Errorf("err = %v, want ErrConfigInvalid in chain", err)
			}
		})
	}
}

func TestLoadCreatesTemplate(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Risk.DefaultSimulations != Default().Risk.DefaultSimulations {
		t.Errorf("fresh load should return defaults")
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("config template not written: %v", err)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	dir := t.TempDir()
	override := []byte("[risk]\ndefault_simulations = 2500\n\n[pin_risk]\nwindow_days = 7.0\n")
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), override, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Risk.DefaultSimulations != 2500 {
		t.Errorf("default_simulations = %d, want 2500", cfg.Risk.DefaultSimulations)
	}
	if cfg.PinRisk.WindowDays != 7 {
		t.Errorf("window_days = %v, want 7", cfg.PinRisk.WindowDays)
	}
	// Sections the file omits keep their defaults.
	if cfg.Payoff.NumPoints != 200 {
		t.Errorf("num_points = %d, want default 200", cfg.Payoff.NumPoints)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	bad := []byte("[risk]\nshort_margin_factor = 5.0\n")
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), bad, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected validation error for out-of-range margin factor")
	}
}
