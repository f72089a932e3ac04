// Package gex provides per-strike and chain-wide dealer gamma exposure
// analysis and gamma-flip detection.
package gex

import (
	"math"
	"sort"
	"time"

	"options-analytics/internal/config"
	"options-analytics/internal/errors"
	"options-analytics/internal/models"
	"options-analytics/internal/pricing"
)

// Engine computes dealer gamma exposure. Dealers are modeled short
// calls and long puts, so call GEX is positive and put GEX negative.
// The engine is stateless and safe for concurrent use.
type Engine struct {
	cfg config.GEXConfig
}

// NewEngine creates a gamma exposure engine.
func NewEngine(cfg config.GEXConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Gamma returns the closed-form option gamma. The figure is identical
// for calls and puts.
func (e *Engine) Gamma(spot, strike, tte, vol, rate float64) (float64, error) {
	return pricing.Gamma(spot, strike, tte, vol, rate, 0)
}

// ForStrike computes one strike's gamma exposure row. Either leg may be
// absent; both absent is an error.
//
// call_gex = gamma x OI x spot^2 x 0.01, put_gex carries the dealer
// short sign.
func (e *Engine) ForStrike(strike float64, call, put *models.OptionData, spot, tte, rate float64) (models.GammaExposureRow, error) {
	if call == nil && put == nil {
		return models.GammaExposureRow{}, errors.ErrBothLegsAbsent
	}

	row := models.GammaExposureRow{Strike: strike}
	notional := spot * spot * 0.01

	if call != nil {
		gamma, err := e.Gamma(spot, strike, tte, call.IV, rate)
		if err != nil {
			return models.GammaExposureRow{}, errors.NewCalculationError("gex", "call_gamma", err)
		}
		row.CallGamma = gamma
		row.CallOI = call.OpenInterest
		row.CallGEX = gamma * float64(call.OpenInterest) * notional
	}
	if put != nil {
		gamma, err := e.Gamma(spot, strike, tte, put.IV, rate)
		if err != nil {
			return models.GammaExposureRow{}, errors.NewCalculationError("gex", "put_gamma", err)
		}
		row.PutGamma = gamma
		row.PutOI = put.OpenInterest
		row.PutGEX = -1 * gamma * float64(put.OpenInterest) * notional
	}
	row.NetGEX = row.CallGEX + row.PutGEX
	return row, nil
}

// FindFlip scans strike-sorted rows for the first sign change in net
// GEX and interpolates the zero-crossing strike. A monotonic-sign chain
// yields a nil flip strike, not an error.
func (e *Engine) FindFlip(rows []models.GammaExposureRow, spot float64) models.GammaFlipLevel {
	if len(rows) < 2 {
		return models.GammaFlipLevel{Regime: models.RegimeNeutral}
	}

	var flip *float64
	for i := 1; i < len(rows); i++ {
		prev, curr := rows[i-1].NetGEX, rows[i].NetGEX
		if prev == 0 {
			s := rows[i-1].Strike
			flip = &s
			break
		}
		if prev*curr < 0 {
			var s float64
			if denom := curr - prev; denom == 0 {
				// Strike midpoint avoids a zero division.
				s = (rows[i-1].Strike + rows[i].Strike) / 2
			} else {
				t := -prev / denom
				s = rows[i-1].Strike + t*(rows[i].Strike-rows[i-1].Strike)
			}
			flip = &s
			break
		}
	}

	if flip == nil {
		return models.GammaFlipLevel{Regime: e.regimeWithoutFlip(rows)}
	}

	distance := math.Abs(spot-*flip) / spot
	level := models.GammaFlipLevel{FlipStrike: flip, DistancePct: distance}
	switch {
	case distance <= e.cfg.NearFlipThresholdPct:
		level.Regime = models.RegimeNearFlip
	case spot > *flip:
		// Above the flip the chain is dealer-positive gamma.
		level.Regime = models.RegimePositiveGamma
	default:
		level.Regime = models.RegimeNegativeGamma
	}
	return level
}

func (e *Engine) regimeWithoutFlip(rows []models.GammaExposureRow) models.MarketRegime {
	var total float64
	for _, r := range rows {
		total += r.NetGEX
	}
	switch {
	case total > 0:
		return models.RegimePositiveGamma
	case total < 0:
		return models.RegimeNegativeGamma
	default:
		return models.RegimeNeutral
	}
}

// Profile computes the full chain-wide gamma exposure profile: one row
// per strike, totals, and the flip level.
func (e *Engine) Profile(chain *models.OptionChain, rate float64, now time.Time) (*models.GEXProfile, error) {
	if len(chain.Strikes) == 0 {
		return nil, errors.ErrEmptyChain
	}
	if chain.SpotPrice <= 0 {
		return nil, errors.NewMissingMarketDataError("spot_price", chain.Symbol)
	}

	tte := chain.Expiry.Sub(now).Hours() / 24 / 365
	if tte < 0 {
		tte = 0
	}

	strikes := make([]models.OptionStrike, len(chain.Strikes))
	copy(strikes, chain.Strikes)
	sort.Slice(strikes, func(i, j int) bool { return strikes[i].Strike < strikes[j].Strike })

	profile := &models.GEXProfile{
		Symbol:    chain.Symbol,
		SpotPrice: chain.SpotPrice,
		Rows:      make([]models.GammaExposureRow, 0, len(strikes)),
	}
	for _, s := range strikes {
		if s.Call == nil && s.Put == nil {
			continue
		}
		row, err := e.ForStrike(s.Strike, s.Call, s.Put, chain.SpotPrice, tte, rate)
		if err != nil {
			return nil, err
		}
		profile.Rows = append(profile.Rows, row)
		profile.TotalCallGEX += row.CallGEX
		profile.TotalPutGEX += row.PutGEX
		profile.TotalNetGEX += row.NetGEX
	}
	if len(profile.Rows) == 0 {
		return nil, errors.ErrEmptyChain
	}

	profile.Flip = e.FindFlip(profile.Rows, chain.SpotPrice)
	return profile, nil
}
