// Package risk provides portfolio risk estimation: value-at-risk,
// Monte Carlo probability of profit, scenario analysis, and a margin
// heuristic.
package risk

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"options-analytics/internal/config"
	"options-analytics/internal/errors"
	"options-analytics/internal/greeks"
	"options-analytics/internal/models"
	"options-analytics/internal/payoff"
	"options-analytics/internal/pricing"
)

// zScores maps supported confidence levels to one-sided normal z-scores.
var zScores = map[float64]float64{
	0.90:  1.282,
	0.95:  1.645,
	0.975: 1.960,
	0.99:  2.326,
}

// Engine estimates strategy risk. It is stateless and safe for
// concurrent use.
type Engine struct {
	cfg    config.RiskConfig
	greeks *greeks.Engine
	payoff *payoff.Engine
}

// NewEngine creates a risk engine backed by the given Greeks and payoff
// engines.
func NewEngine(cfg config.RiskConfig, g *greeks.Engine, p *payoff.Engine) *Engine {
	return &Engine{cfg: cfg, greeks: g, payoff: p}
}

// ValueAtRisk returns the parametric normal VaR of a strategy over the
// given horizon. Only the confidence levels in the z-score table are
// supported.
func (e *Engine) ValueAtRisk(s *models.Strategy, confidenceLevel, horizonDays float64) (*models.VaRResult, error) {
	z, ok := zScores[confidenceLevel]
	if !ok {
		return nil, errors.NewInvalidInputError("confidence_level", confidenceLevel, "must be one of 0.90, 0.95, 0.975, 0.99")
	}
	if horizonDays <= 0 {
		return nil, errors.NewInvalidInputError("horizon_days", horizonDays, "must be positive")
	}

	notional := decimal.Zero
	var ivSum float64
	for _, leg := range s.Legs {
		if leg.ImpliedVol <= 0 {
			return nil, errors.NewMissingMarketDataError("implied_volatility", leg.Symbol)
		}
		size := decimal.NewFromInt(int64(leg.Quantity) * models.ContractMultiplier)
		notional = notional.Add(leg.Premium.Mul(size).Abs())
		ivSum += leg.ImpliedVol
	}

	dailyVol := ivSum / float64(len(s.Legs)) / math.Sqrt(e.cfg.TradingDaysPerYear)
	scale := decimal.NewFromFloat(dailyVol * z * math.Sqrt(horizonDays))

	return &models.VaRResult{
		ValueAtRisk:     notional.Mul(scale),
		ConfidenceLevel: confidenceLevel,
		HorizonDays:     horizonDays,
		Notional:        notional,
		DailyVolatility: dailyVol,
	}, nil
}

// ScenarioLinear estimates the strategy P&L under a shocked market
// state using a first-order Greeks approximation:
// delta x price move + vega x vol change + theta x days. Gamma
// convexity is ignored; use ScenarioReprice when that matters.
func (e *Engine) ScenarioLinear(s *models.Strategy, priceChangePct, volChangePct, daysForward float64, now time.Time) (*models.ScenarioResult, error) {
	agg, err := e.greeks.ForStrategy(s, now)
	if err != nil {
		return nil, err
	}
	spot := s.Legs[0].UnderlyingPrice

	priceMove := spot * priceChangePct / 100
	estimated := agg.Total.Delta*priceMove + agg.Total.Vega*volChangePct + agg.Total.Theta*daysForward

	return &models.ScenarioResult{
		EstimatedPnL:   decimal.NewFromFloat(estimated).Round(2),
		PriceChangePct: priceChangePct,
		VolChangePct:   volChangePct,
		DaysForward:    daysForward,
		Method:         "linear_greeks",
	}, nil
}

// ScenarioReprice estimates the strategy P&L by fully re-pricing every
// leg at the shocked spot, volatility, and remaining time. It captures
// the convexity ScenarioLinear ignores.
func (e *Engine) ScenarioReprice(s *models.Strategy, priceChangePct, volChangePct, daysForward float64, now time.Time) (*models.ScenarioResult, error) {
	total := decimal.Zero
	for _, leg := range s.Legs {
		if leg.UnderlyingPrice <= 0 {
			return nil, errors.NewMissingMarketDataError("underlying_price", leg.Symbol)
		}
		if leg.ImpliedVol <= 0 {
			return nil, errors.NewMissingMarketDataError("implied_volatility", leg.Symbol)
		}

		strike := leg.Strike.InexactFloat64()
		current, err := pricing.Price(leg.UnderlyingPrice, strike, leg.TimeToExpiry(now), leg.ImpliedVol, leg.RiskFreeRate, leg.Type, leg.DividendYield)
		if err != nil {
			return nil, err
		}

		shockedSpot := leg.UnderlyingPrice * (1 + priceChangePct/100)
		shockedVol := leg.ImpliedVol * (1 + volChangePct/100)
		shockedTTE := leg.TimeToExpiry(now) - daysForward/365
		if shockedTTE < 0 {
			shockedTTE = 0
		}
		shocked, err := pricing.Price(shockedSpot, strike, shockedTTE, shockedVol, leg.RiskFreeRate, leg.Type, leg.DividendYield)
		if err != nil {
			return nil, err
		}

		size := int64(leg.PositionSign()) * int64(leg.Quantity) * models.ContractMultiplier
		total = total.Add(decimal.NewFromFloat(shocked - current).Mul(decimal.NewFromInt(size)))
	}

	return &models.ScenarioResult{
		EstimatedPnL:   total.Round(2),
		PriceChangePct: priceChangePct,
		VolChangePct:   volChangePct,
		DaysForward:    daysForward,
		Method:         "full_reprice",
	}, nil
}

// MarginRequirement estimates margin for a strategy. Short legs
// contribute max(factor x notional + premium collected - OTM amount,
// premium collected); long legs contribute nothing.
func (e *Engine) MarginRequirement(s *models.Strategy) (*models.MarginEstimate, error) {
	estimate := &models.MarginEstimate{
		Total:  decimal.Zero,
		PerLeg: make([]decimal.Decimal, len(s.Legs)),
	}
	factor := decimal.NewFromFloat(e.cfg.ShortMarginFactor)

	for i, leg := range s.Legs {
		estimate.PerLeg[i] = decimal.Zero
		if leg.Position != models.Short {
			continue
		}
		if leg.UnderlyingPrice <= 0 {
			return nil, errors.NewMissingMarketDataError("underlying_price", leg.Symbol)
		}

		size := decimal.NewFromInt(int64(leg.Quantity) * models.ContractMultiplier)
		spot := decimal.NewFromFloat(leg.UnderlyingPrice)
		notional := spot.Mul(size)
		collected := leg.Premium.Mul(size)

		var otm decimal.Decimal
		if leg.Type == models.Call {
			otm = leg.Strike.Sub(spot)
		} else {
			otm = spot.Sub(leg.Strike)
		}
		if otm.IsNegative() {
			otm = decimal.Zero
		}
		otm = otm.Mul(size)

		margin := factor.Mul(notional).Add(collected).Sub(otm)
		if margin.LessThan(collected) {
			margin = collected
		}
		estimate.PerLeg[i] = margin
		estimate.Total = estimate.Total.Add(margin)
	}
	return estimate, nil
}
