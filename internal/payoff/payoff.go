// Package payoff provides P&L curve construction and breakeven detection.
package payoff

import (
	"time"

	"github.com/shopspring/decimal"

	"options-analytics/internal/config"
	"options-analytics/internal/errors"
	"options-analytics/internal/models"
	"options-analytics/internal/pricing"
)

// Engine builds payoff diagrams for strategies. It is stateless and
// safe for concurrent use.
type Engine struct {
	cfg config.PayoffConfig
}

// NewEngine creates a payoff engine with the given sampling configuration.
func NewEngine(cfg config.PayoffConfig) *Engine {
	return &Engine{cfg: cfg}
}

// PnLAtExpiration returns the P&L of a single leg if the underlying
// settles at the given price: intrinsic value times quantity times the
// contract multiplier, sign-adjusted by position, net of premium.
func PnLAtExpiration(o *models.OptionContract, underlying decimal.Decimal) decimal.Decimal {
	size := decimal.NewFromInt(int64(o.Quantity) * models.ContractMultiplier)
	intrinsic := o.IntrinsicValue(underlying).Mul(size)
	premium := o.Premium.Mul(size)
	if o.Position == models.Short {
		return premium.Sub(intrinsic)
	}
	return intrinsic.Sub(premium)
}

// PnLCurrent returns the mark-to-model P&L of a single leg at the given
// underlying price, repricing the option with its implied volatility.
func PnLCurrent(o *models.OptionContract, underlying float64, now time.Time) (decimal.Decimal, error) {
	if o.ImpliedVol <= 0 {
		return decimal.Zero, errors.NewMissingMarketDataError("implied_volatility", o.Symbol)
	}
	price, err := pricing.Price(underlying, o.Strike.InexactFloat64(), o.TimeToExpiry(now), o.ImpliedVol, o.RiskFreeRate, o.Type, o.DividendYield)
	if err != nil {
		return decimal.Zero, err
	}
	size := decimal.NewFromInt(int64(o.Quantity) * models.ContractMultiplier)
	value := decimal.NewFromFloat(price).Mul(size)
	premium := o.Premium.Mul(size)
	if o.Position == models.Short {
		return premium.Sub(value), nil
	}
	return value.Sub(premium), nil
}

// DiagramOptions controls payoff diagram construction. Zero values fall
// back to the engine configuration: the default price range is
// [low_factor x min strike, high_factor x max strike].
type DiagramOptions struct {
	MinPrice     float64
	MaxPrice     float64
	NumPoints    int
	AtExpiration bool
	Now          time.Time
}

// StrategyPnL returns the aggregate P&L of a strategy at one underlying
// price.
func (e *Engine) StrategyPnL(s *models.Strategy, underlying float64, opts DiagramOptions) (decimal.Decimal, error) {
	total := decimal.Zero
	underlyingDec := decimal.NewFromFloat(underlying)
	for _, leg := range s.Legs {
		if opts.AtExpiration {
			total = total.Add(PnLAtExpiration(leg, underlyingDec))
			continue
		}
		pnl, err := PnLCurrent(leg, underlying, opts.Now)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(pnl)
	}
	return total, nil
}

// Diagram samples the strategy P&L across a price range and locates
// breakevens by linear interpolation between adjacent samples.
//
// Max profit and loss are the sampled argmax/argmin; a kink between two
// sample points can hide the true extremum. Raise NumPoints when that
// matters.
func (e *Engine) Diagram(s *models.Strategy, opts DiagramOptions) (*models.PayoffDiagram, error) {
	if len(s.Legs) == 0 {
		return nil, errors.ErrNoLegs
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.NumPoints <= 1 {
		opts.NumPoints = e.cfg.NumPoints
	}
	low, high := opts.MinPrice, opts.MaxPrice
	if low <= 0 || high <= low {
		minK, maxK := s.StrikeRange()
		low = minK.InexactFloat64() * e.cfg.RangeLowFactor
		high = maxK.InexactFloat64() * e.cfg.RangeHighFactor
	}

	n := opts.NumPoints
	step := (high - low) / float64(n-1)
	prices := make([]float64, n)
	pnls := make([]decimal.Decimal, n)

	maxIdx, minIdx := 0, 0
	for i := 0; i < n; i++ {
		price := low + step*float64(i)
		pnl, err := e.StrategyPnL(s, price, opts)
		if err != nil {
			return nil, err
		}
		prices[i] = price
		pnls[i] = pnl
		if pnl.GreaterThan(pnls[maxIdx]) {
			maxIdx = i
		}
		if pnl.LessThan(pnls[minIdx]) {
			minIdx = i
		}
	}

	return &models.PayoffDiagram{
		Prices:      prices,
		PnL:         pnls,
		Breakevens:  findBreakevens(prices, pnls),
		MaxProfit:   pnls[maxIdx],
		MaxProfitAt: prices[maxIdx],
		MaxLoss:     pnls[minIdx],
		MaxLossAt:   prices[minIdx],
		NetPremium:  s.NetPremium(),
	}, nil
}

// findBreakevens scans adjacent samples for sign changes and linearly
// interpolates the zero crossing.
func findBreakevens(prices []float64, pnls []decimal.Decimal) []float64 {
	var breakevens []float64
	for i := 1; i < len(pnls); i++ {
		prev := pnls[i-1].InexactFloat64()
		curr := pnls[i].InexactFloat64()
		if prev == 0 {
			breakevens = append(breakevens, prices[i-1])
			continue
		}
		if prev*curr < 0 {
			t := -prev / (curr - prev)
			breakevens = append(breakevens, prices[i-1]+t*(prices[i]-prices[i-1]))
		}
	}
	if n := len(pnls); n > 0 && pnls[n-1].IsZero() {
		breakevens = append(breakevens, prices[n-1])
	}
	return breakevens
}
