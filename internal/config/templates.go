package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Options Analytics Configuration

[greeks]
# Absolute aggregate delta above which the position is classified as
# carrying high directional exposure
high_delta_threshold = 50.0
# Absolute aggregate gamma above which convexity is flagged
high_gamma_threshold = 5.0
# Absolute aggregate daily theta above which time decay is flagged
high_theta_threshold = 50.0
# Absolute aggregate vega above which volatility exposure is flagged
high_vega_threshold = 100.0

[payoff]
# Number of sample points on the payoff curve
num_points = 200
# Default price range as factors of the lowest and highest strikes
range_low_factor = 0.8
range_high_factor = 1.2

[gex]
# Spot-to-flip distance (as a fraction of spot) below which the regime
# is classified as near_flip
near_flip_threshold_pct = 0.05

[pin_risk]
# Pin risk is only evaluated for expirations within this many days
window_days = 5.0
# Weight of spot proximity to the nearest high-OI strike
proximity_weight = 0.6
# Weight of time-decay urgency
urgency_weight = 0.4
# Proximity reaches zero once spot is this fraction of the strike away
proximity_max_pct = 0.05
# Strikes with OI at least this fraction of the maximum count as high-OI
high_oi_fraction = 0.5

[risk]
# Monte Carlo simulation count bounds
default_simulations = 10000
min_simulations = 1000
max_simulations = 10000
# Trading days used to de-annualize volatility
trading_days_per_year = 252.0
# Short-leg margin factor on underlying notional
short_margin_factor = 0.20
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
