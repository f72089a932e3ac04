// Package greeks provides per-option sensitivities and cross-leg aggregation.
package greeks

import (
	"math"
	"time"

	"options-analytics/internal/config"
	"options-analytics/internal/errors"
	"options-analytics/internal/models"
	"options-analytics/internal/pricing"
)

// Engine computes position-scaled Greeks and aggregates them across
// strategy legs. It is stateless and safe for concurrent use.
type Engine struct {
	cfg config.GreeksConfig
}

// NewEngine creates a Greeks engine with the given classification
// thresholds.
func NewEngine(cfg config.GreeksConfig) *Engine {
	return &Engine{cfg: cfg}
}

// ForOption computes the Greeks of a single leg, scaled by quantity and
// contract multiplier and sign-flipped for short positions. Theta is
// per calendar day, vega per 1% volatility move, rho per 1% rate move.
func (e *Engine) ForOption(o *models.OptionContract, now time.Time) (models.OptionGreeks, error) {
	if o.UnderlyingPrice <= 0 {
		return models.OptionGreeks{}, errors.NewMissingMarketDataError("underlying_price", o.Symbol)
	}
	if o.ImpliedVol <= 0 {
		return models.OptionGreeks{}, errors.NewMissingMarketDataError("implied_volatility", o.Symbol)
	}

	spot := o.UnderlyingPrice
	strike := o.Strike.InexactFloat64()
	tte := o.TimeToExpiry(now)

	delta, err := pricing.Delta(spot, strike, tte, o.ImpliedVol, o.RiskFreeRate, o.Type, o.DividendYield)
	if err != nil {
		return models.OptionGreeks{}, err
	}
	gamma, err := pricing.Gamma(spot, strike, tte, o.ImpliedVol, o.RiskFreeRate, o.DividendYield)
	if err != nil {
		return models.OptionGreeks{}, err
	}
	theta, err := pricing.Theta(spot, strike, tte, o.ImpliedVol, o.RiskFreeRate, o.Type, o.DividendYield)
	if err != nil {
		return models.OptionGreeks{}, err
	}
	vega, err := pricing.Vega(spot, strike, tte, o.ImpliedVol, o.RiskFreeRate, o.DividendYield)
	if err != nil {
		return models.OptionGreeks{}, err
	}
	rho, err := pricing.Rho(spot, strike, tte, o.ImpliedVol, o.RiskFreeRate, o.Type, o.DividendYield)
	if err != nil {
		return models.OptionGreeks{}, err
	}

	scale := float64(o.PositionSign()) * float64(o.Quantity) * models.ContractMultiplier
	return models.OptionGreeks{
		Delta: delta,
		Gamma: gamma,
		Theta: theta / 365,
		Vega:  vega * 0.01,
		Rho:   rho * 0.01,
	}.Scale(scale), nil
}

// Aggregate sums leg Greeks elementwise and classifies the combined
// risk profile against the configured thresholds.
func (e *Engine) Aggregate(legs []models.OptionGreeks) models.AggregatedGreeks {
	var total models.OptionGreeks
	for _, g := range legs {
		total = total.Add(g)
	}
	return models.AggregatedGreeks{
		Total:       total,
		PerContract: total.Scale(1.0 / models.ContractMultiplier),
		RiskProfile: e.classify(total),
	}
}

// ForStrategy computes and aggregates Greeks for every leg of a
// strategy. A leg missing market data fails the whole call with a
// MissingMarketDataError naming the absent field.
func (e *Engine) ForStrategy(s *models.Strategy, now time.Time) (models.AggregatedGreeks, error) {
	legs := make([]models.OptionGreeks, 0, len(s.Legs))
	for _, leg := range s.Legs {
		g, err := e.ForOption(leg, now)
		if err != nil {
			return models.AggregatedGreeks{}, err
		}
		leg.Greeks = &g
		legs = append(legs, g)
	}
	return e.Aggregate(legs), nil
}

func (e *Engine) classify(g models.OptionGreeks) []string {
	var profile []string

	switch {
	case math.Abs(g.Delta) > e.cfg.HighDeltaThreshold:
		if g.Delta > 0 {
			profile = append(profile, "high directional exposure (bullish)")
		} else {
			profile = append(profile, "high directional exposure (bearish)")
		}
	case g.Delta > 0:
		profile = append(profile, "mildly bullish")
	case g.Delta < 0:
		profile = append(profile, "mildly bearish")
	default:
		profile = append(profile, "delta neutral")
	}

	if g.Vega > 0 {
		profile = append(profile, "long volatility")
	} else if g.Vega < 0 {
		profile = append(profile, "short volatility")
	}
	if math.Abs(g.Vega) > e.cfg.HighVegaThreshold {
		profile = append(profile, "high volatility sensitivity")
	}

	if g.Theta > 0 {
		profile = append(profile, "positive time decay (collecting theta)")
	} else if g.Theta < -e.cfg.HighThetaThreshold {
		profile = append(profile, "heavy time decay")
	}

	if math.Abs(g.Gamma) > e.cfg.HighGammaThreshold {
		profile = append(profile, "high gamma (convexity risk)")
	}

	return profile
}
