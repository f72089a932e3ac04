// Package pinrisk provides max-pain and pin-risk scoring near expiration.
package pinrisk

import (
	"math"
	"sort"
	"time"

	"options-analytics/internal/config"
	"options-analytics/internal/errors"
	"options-analytics/internal/models"
)

// Engine analyzes pin risk for chains approaching expiration. It is
// stateless and safe for concurrent use.
type Engine struct {
	cfg config.PinRiskConfig
}

// NewEngine creates a pin risk engine.
func NewEngine(cfg config.PinRiskConfig) *Engine {
	return &Engine{cfg: cfg}
}

// MaxPain returns the candidate strike that minimizes the aggregate
// payout to option holders at expiration.
func MaxPain(strikes []models.OptionStrike) (float64, error) {
	if len(strikes) == 0 {
		return 0, errors.ErrEmptyChain
	}

	best := strikes[0].Strike
	bestPayout := math.Inf(1)
	for _, candidate := range strikes {
		var payout float64
		for _, s := range strikes {
			if s.Call != nil && candidate.Strike > s.Strike {
				payout += (candidate.Strike - s.Strike) * float64(s.Call.OpenInterest)
			}
			if s.Put != nil && candidate.Strike < s.Strike {
				payout += (s.Strike - candidate.Strike) * float64(s.Put.OpenInterest)
			}
		}
		if payout < bestPayout {
			bestPayout = payout
			best = candidate.Strike
		}
	}
	return best, nil
}

// Score combines spot proximity to the nearest high-open-interest
// strike with time-decay urgency, clipped to [0, 1].
func (e *Engine) Score(spot float64, highOIStrikes []float64, daysToExpiration float64) float64 {
	if spot <= 0 || len(highOIStrikes) == 0 {
		return 0
	}

	nearest := highOIStrikes[0]
	for _, k := range highOIStrikes[1:] {
		if math.Abs(k-spot) < math.Abs(nearest-spot) {
			nearest = k
		}
	}
	// Proximity decays linearly, reaching zero once spot sits the
	// configured fraction of the strike away from it.
	proximity := 1 - math.Abs(spot-nearest)/(nearest*e.cfg.ProximityMaxPct)
	proximity = clip01(proximity)

	urgency := clip01(1 - daysToExpiration/e.cfg.WindowDays)

	return clip01(e.cfg.ProximityWeight*proximity + e.cfg.UrgencyWeight*urgency)
}

// Analyze computes the pin-risk snapshot for a chain. Chains whose
// expiration falls outside the configured day window yield (nil, nil):
// not applicable, not a failure.
func (e *Engine) Analyze(chain *models.OptionChain, now time.Time) (*models.PinRiskSnapshot, error) {
	if len(chain.Strikes) == 0 {
		return nil, errors.ErrEmptyChain
	}
	if chain.SpotPrice <= 0 {
		return nil, errors.NewMissingMarketDataError("spot_price", chain.Symbol)
	}

	days := chain.Expiry.Sub(now).Hours() / 24
	if days < 0 || days > e.cfg.WindowDays {
		return nil, nil
	}

	maxPain, err := MaxPain(chain.Strikes)
	if err != nil {
		return nil, err
	}

	high := e.highOIStrikes(chain.Strikes)
	return &models.PinRiskSnapshot{
		Symbol:           chain.Symbol,
		Expiry:           chain.Expiry,
		DaysToExpiration: days,
		MaxPainStrike:    maxPain,
		HighOIStrikes:    high,
		Score:            e.Score(chain.SpotPrice, high, days),
	}, nil
}

// highOIStrikes returns strikes whose combined open interest is at
// least the configured fraction of the chain maximum.
func (e *Engine) highOIStrikes(strikes []models.OptionStrike) []float64 {
	var maxOI int64
	totals := make(map[float64]int64, len(strikes))
	for _, s := range strikes {
		var oi int64
		if s.Call != nil {
			oi += s.Call.OpenInterest
		}
		if s.Put != nil {
			oi += s.Put.OpenInterest
		}
		totals[s.Strike] = oi
		if oi > maxOI {
			maxOI = oi
		}
	}
	if maxOI == 0 {
		return nil
	}

	threshold := float64(maxOI) * e.cfg.HighOIFraction
	var high []float64
	for strike, oi := range totals {
		if float64(oi) >= threshold {
			high = append(high, strike)
		}
	}
	sort.Float64s(high)
	return high
}

func clip01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
