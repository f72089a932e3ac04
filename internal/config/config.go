// Package config provides configuration management for the analytics engines.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"options-analytics/internal/errors"
)

// Config holds all engine configuration. Every threshold table the
// engines consult lives here so that independent callers can run with
// independent configurations.
type Config struct {
	Greeks  GreeksConfig  `mapstructure:"greeks"`
	Payoff  PayoffConfig  `mapstructure:"payoff"`
	GEX     GEXConfig     `mapstructure:"gex"`
	PinRisk PinRiskConfig `mapstructure:"pin_risk"`
	Risk    RiskConfig    `mapstructure:"risk"`
}

// GreeksConfig holds the risk-profile classification thresholds.
type GreeksConfig struct {
	HighDeltaThreshold float64 `mapstructure:"high_delta_threshold"`
	HighGammaThreshold float64 `mapstructure:"high_gamma_threshold"`
	HighThetaThreshold float64 `mapstructure:"high_theta_threshold"`
	HighVegaThreshold  float64 `mapstructure:"high_vega_threshold"`
}

// PayoffConfig holds payoff diagram sampling configuration.
type PayoffConfig struct {
	NumPoints       int     `mapstructure:"num_points"`
	RangeLowFactor  float64 `mapstructure:"range_low_factor"`
	RangeHighFactor float64 `mapstructure:"range_high_factor"`
}

// GEXConfig holds gamma exposure configuration.
type GEXConfig struct {
	NearFlipThresholdPct float64 `mapstructure:"near_flip_threshold_pct"`
}

// PinRiskConfig holds pin-risk analysis configuration.
type PinRiskConfig struct {
	WindowDays      float64 `mapstructure:"window_days"`
	ProximityWeight float64 `mapstructure:"proximity_weight"`
	UrgencyWeight   float64 `mapstructure:"urgency_weight"`
	ProximityMaxPct float64 `mapstructure:"proximity_max_pct"`
	HighOIFraction  float64 `mapstructure:"high_oi_fraction"`
}

// RiskConfig holds risk engine configuration.
type RiskConfig struct {
	DefaultSimulations int     `mapstructure:"default_simulations"`
	MinSimulations     int     `mapstructure:"min_simulations"`
	MaxSimulations     int     `mapstructure:"max_simulations"`
	TradingDaysPerYear float64 `mapstructure:"trading_days_per_year"`
	ShortMarginFactor  float64 `mapstructure:"short_margin_factor"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Greeks: GreeksConfig{
			HighDeltaThreshold: 50,
			HighGammaThreshold: 5,
			HighThetaThreshold: 50,
			HighVegaThreshold:  100,
		},
		Payoff: PayoffConfig{
			NumPoints:       200,
			RangeLowFactor:  0.8,
			RangeHighFactor: 1.2,
		},
		GEX: GEXConfig{
			NearFlipThresholdPct: 0.05,
		},
		PinRisk: PinRiskConfig{
			WindowDays:      5,
			ProximityWeight: 0.6,
			UrgencyWeight:   0.4,
			ProximityMaxPct: 0.05,
			HighOIFraction:  0.5,
		},
		Risk: RiskConfig{
			DefaultSimulations: 10000,
			MinSimulations:     1000,
			MaxSimulations:     10000,
			TradingDaysPerYear: 252,
			ShortMarginFactor:  0.20,
		},
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-analytics"
	}
	return filepath.Join(home, ".config", "options-analytics")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config file is created from the template and the defaults returned.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if werr := createTemplateConfig(configDir); werr != nil {
				return nil, fmt.Errorf("creating config template: %w", werr)
			}
			if verr := cfg.Validate(); verr != nil {
				return nil, verr
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("greeks.high_delta_threshold", cfg.Greeks.HighDeltaThreshold)
	v.SetDefault("greeks.high_gamma_threshold", cfg.Greeks.HighGammaThreshold)
	v.SetDefault("greeks.high_theta_threshold", cfg.Greeks.HighThetaThreshold)
	v.SetDefault("greeks.high_vega_threshold", cfg.Greeks.HighVegaThreshold)
	v.SetDefault("payoff.num_points", cfg.Payoff.NumPoints)
	v.SetDefault("payoff.range_low_factor", cfg.Payoff.RangeLowFactor)
	v.SetDefault("payoff.range_high_factor", cfg.Payoff.RangeHighFactor)
	v.SetDefault("gex.near_flip_threshold_pct", cfg.GEX.NearFlipThresholdPct)
	v.SetDefault("pin_risk.window_days", cfg.PinRisk.WindowDays)
	v.SetDefault("pin_risk.proximity_weight", cfg.PinRisk.ProximityWeight)
	v.SetDefault("pin_risk.urgency_weight", cfg.PinRisk.UrgencyWeight)
	v.SetDefault("pin_risk.proximity_max_pct", cfg.PinRisk.ProximityMaxPct)
	v.SetDefault("pin_risk.high_oi_fraction", cfg.PinRisk.HighOIFraction)
	v.SetDefault("risk.default_simulations", cfg.Risk.DefaultSimulations)
	v.SetDefault("risk.min_simulations", cfg.Risk.MinSimulations)
	v.SetDefault("risk.max_simulations", cfg.Risk.MaxSimulations)
	v.SetDefault("risk.trading_days_per_year", cfg.Risk.TradingDaysPerYear)
	v.SetDefault("risk.short_margin_factor", cfg.Risk.ShortMarginFactor)
}

// Validate validates the configuration. Failures wrap ErrConfigInvalid.
func (c *Config) Validate() error {
	if c.Payoff.NumPoints < 2 {
		return fmt.Errorf("%w: payoff num_points must be at least 2", errors.ErrConfigInvalid)
	}
	if c.Payoff.RangeLowFactor <= 0 || c.Payoff.RangeHighFactor <= c.Payoff.RangeLowFactor {
		return fmt.Errorf("%w: payoff range factors must satisfy 0 < low < high", errors.ErrConfigInvalid)
	}
	if c.GEX.NearFlipThresholdPct <= 0 || c.GEX.NearFlipThresholdPct >= 1 {
		return fmt.Errorf("%w: gex near_flip_threshold_pct must be between 0 and 1", errors.ErrConfigInvalid)
	}
	if c.PinRisk.WindowDays <= 0 {
		return fmt.Errorf("%w: pin_risk window_days must be positive", errors.ErrConfigInvalid)
	}
	if w := c.PinRisk.ProximityWeight + c.PinRisk.UrgencyWeight; w < 0.999 || w > 1.001 {
		return fmt.Errorf("%w: pin_risk weights must sum to 1.0", errors.ErrConfigInvalid)
	}
	if c.PinRisk.ProximityMaxPct <= 0 || c.PinRisk.ProximityMaxPct >= 1 {
		return fmt.Errorf("%w: pin_risk proximity_max_pct must be between 0 and 1", errors.ErrConfigInvalid)
	}
	if c.Risk.MinSimulations < 1 || c.Risk.MaxSimulations < c.Risk.MinSimulations {
		return fmt.Errorf("%w: risk simulation bounds must satisfy 1 <= min <= max", errors.ErrConfigInvalid)
	}
	if c.Risk.ShortMarginFactor <= 0 || c.Risk.ShortMarginFactor >= 1 {
		return fmt.Errorf("%w: risk short_margin_factor must be between 0 and 1", errors.ErrConfigInvalid)
	}
	return nil
}
