package pricing

import (
	"math"

	"options-analytics/internal/errors"
	"options-analytics/internal/models"
)

const (
	ivSeed          = 0.30
	ivMaxIterations = 100
	ivTolerance     = 1e-4
	ivClampLow      = MinVolatility
	ivClampHigh     = 5.0
)

// IVResult is the outcome of an implied-volatility solve. Converged is
// false when the Newton-Raphson loop exhausted its iteration budget;
// Volatility then holds the last iterate as a best-effort estimate.
type IVResult struct {
	Volatility float64
	Converged  bool
	Iterations int
}

// ImpliedVolatility solves for the volatility implied by an observed
// option price using Newton-Raphson with the analytic vega as the
// derivative. The iterate is clamped to [0.01, 5.0] every step.
func ImpliedVolatility(observedPrice, spot, strike, tte, rate float64, optType models.OptionType, yield float64) (IVResult, error) {
	if observedPrice < 0 {
		return IVResult{}, errors.NewInvalidInputError("observed_price", observedPrice, "must be non-negative")
	}
	if err := validate(spot, strike, tte, 0); err != nil {
		return IVResult{}, err
	}
	if tte == 0 {
		return IVResult{}, errors.NewInvalidInputError("time_to_expiry", tte, "option has expired")
	}

	sigma := ivSeed
	for i := 0; i < ivMaxIterations; i++ {
		price, err := Price(spot, strike, tte, sigma, rate, optType, yield)
		if err != nil {
			return IVResult{}, err
		}
		diff := price - observedPrice
		if math.Abs(diff) < ivTolerance {
			return IVResult{Volatility: sigma, Converged: true, Iterations: i}, nil
		}
		vega, err := Vega(spot, strike, tte, sigma, rate, yield)
		if err != nil {
			return IVResult{}, err
		}
		if vega < 1e-10 {
			// Flat price surface, Newton step is unusable.
			return IVResult{Volatility: sigma, Converged: false, Iterations: i}, nil
		}
		sigma -= diff / vega
		if sigma < ivClampLow {
			sigma = ivClampLow
		} else if sigma > ivClampHigh {
			sigma = ivClampHigh
		}
	}
	return IVResult{Volatility: sigma, Converged: false, Iterations: ivMaxIterations}, nil
}
