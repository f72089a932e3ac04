package risk

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"options-analytics/internal/errors"
	"options-analytics/internal/models"
	"options-analytics/internal/payoff"
)

// ProbabilityOfProfit runs a Monte Carlo simulation of the strategy
// P&L under risk-neutral geometric Brownian motion (drift equal to the
// risk-free rate, volatility from the leg IVs) and reports the fraction
// of paths finishing with positive P&L.
//
// The seed makes runs reproducible. The generator is local to the call,
// so concurrent simulations never interleave draws.
func (e *Engine) ProbabilityOfProfit(s *models.Strategy, numSimulations int, seed int64, now time.Time) (*models.SimulationResult, error) {
	if numSimulations <= 0 {
		numSimulations = e.cfg.DefaultSimulations
	}
	if numSimulations < e.cfg.MinSimulations {
		numSimulations = e.cfg.MinSimulations
	}
	if numSimulations > e.cfg.MaxSimulations {
		numSimulations = e.cfg.MaxSimulations
	}

	spot := 0.0
	var ivSum float64
	horizon := math.Inf(1)
	rate := 0.0
	for _, leg := range s.Legs {
		if leg.UnderlyingPrice <= 0 {
			return nil, errors.NewMissingMarketDataError("underlying_price", leg.Symbol)
		}
		if leg.ImpliedVol <= 0 {
			return nil, errors.NewMissingMarketDataError("implied_volatility", leg.Symbol)
		}
		spot = leg.UnderlyingPrice
		rate = leg.RiskFreeRate
		ivSum += leg.ImpliedVol
		if t := leg.TimeToExpiry(now); t < horizon {
			horizon = t
		}
	}
	vol := ivSum / float64(len(s.Legs))

	rng := rand.New(rand.NewSource(seed))
	drift := (rate - 0.5*vol*vol) * horizon
	diffusion := vol * math.Sqrt(horizon)

	profitable := 0
	var sum, sumSq float64
	for i := 0; i < numSimulations; i++ {
		terminal := spot * math.Exp(drift+diffusion*rng.NormFloat64())

		pnl := decimal.Zero
		terminalDec := decimal.NewFromFloat(terminal)
		for _, leg := range s.Legs {
			pnl = pnl.Add(payoff.PnLAtExpiration(leg, terminalDec))
		}
		v := pnl.InexactFloat64()
		if v > 0 {
			profitable++
		}
		sum += v
		sumSq += v * v
	}

	n := float64(numSimulations)
	meanPnL := sum / n
	variance := sumSq/n - meanPnL*meanPnL
	if variance < 0 {
		variance = 0
	}

	return &models.SimulationResult{
		ProbabilityOfProfit: float64(profitable) / n,
		ExpectedValue:       decimal.NewFromFloat(meanPnL).Round(2),
		StdDev:              decimal.NewFromFloat(math.Sqrt(variance)).Round(2),
		Simulations:         numSimulations,
		Seed:                seed,
	}, nil
}
