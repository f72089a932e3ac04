// Package pricing provides closed-form European option pricing and the
// analytic partial derivatives the other engines build on.
package pricing

import (
	"math"

	"options-analytics/internal/errors"
	"options-analytics/internal/models"
)

// MinVolatility is the documented volatility floor. Inputs between zero
// and the floor are raised to it rather than rejected.
const MinVolatility = 0.01

// NormCDF is the standard normal cumulative distribution function.
func NormCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// NormPDF is the standard normal probability density function.
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// d1 and d2 are the Black-Scholes intermediates with continuous
// dividend yield q.
func d1d2(spot, strike, tte, vol, rate, yield float64) (float64, float64) {
	d1 := (math.Log(spot/strike) + (rate-yield+0.5*vol*vol)*tte) / (vol * math.Sqrt(tte))
	d2 := d1 - vol*math.Sqrt(tte)
	return d1, d2
}

func validate(spot, strike, tte, vol float64) error {
	if spot < 0 {
		return errors.NewInvalidInputError("spot", spot, "must be non-negative")
	}
	if strike <= 0 {
		return errors.NewInvalidInputError("strike", strike, "must be positive")
	}
	if tte < 0 {
		return errors.NewInvalidInputError("time_to_expiry", tte, "must be non-negative")
	}
	if vol < 0 {
		return errors.NewInvalidInputError("volatility", vol, "must be non-negative")
	}
	return nil
}

// Intrinsic returns the exercise value of one share.
func Intrinsic(spot, strike float64, optType models.OptionType) float64 {
	if optType == models.Call {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}

// Price returns the Black-Scholes value of a European option. At
// expiration (tte == 0) it returns intrinsic value. Volatility below
// the floor is raised to MinVolatility.
func Price(spot, strike, tte, vol, rate float64, optType models.OptionType, yield float64) (float64, error) {
	if err := validate(spot, strike, tte, vol); err != nil {
		return 0, err
	}
	if tte == 0 {
		return Intrinsic(spot, strike, optType), nil
	}
	if vol < MinVolatility {
		vol = MinVolatility
	}
	d1, d2 := d1d2(spot, strike, tte, vol, rate, yield)
	discSpot := spot * math.Exp(-yield*tte)
	discStrike := strike * math.Exp(-rate*tte)
	if optType == models.Call {
		return discSpot*NormCDF(d1) - discStrike*NormCDF(d2), nil
	}
	return discStrike*NormCDF(-d2) - discSpot*NormCDF(-d1), nil
}

// Delta returns the analytic delta. Calls fall in [0, 1], puts in [-1, 0].
func Delta(spot, strike, tte, vol, rate float64, optType models.OptionType, yield float64) (float64, error) {
	if err := validate(spot, strike, tte, vol); err != nil {
		return 0, err
	}
	if tte == 0 || spot == 0 {
		// Step-function delta at expiration.
		if optType == models.Call {
			if spot > strike {
				return 1, nil
			}
			return 0, nil
		}
		if spot < strike {
			return -1, nil
		}
		return 0, nil
	}
	if vol < MinVolatility {
		vol = MinVolatility
	}
	d1, _ := d1d2(spot, strike, tte, vol, rate, yield)
	disc := math.Exp(-yield * tte)
	if optType == models.Call {
		return disc * NormCDF(d1), nil
	}
	return disc * (NormCDF(d1) - 1), nil
}

// Gamma returns the analytic gamma. The figure is identical for calls
// and puts by put-call parity.
func Gamma(spot, strike, tte, vol, rate, yield float64) (float64, error) {
	if err := validate(spot, strike, tte, vol); err != nil {
		return 0, err
	}
	if tte == 0 || spot == 0 {
		return 0, nil
	}
	if vol < MinVolatility {
		vol = MinVolatility
	}
	d1, _ := d1d2(spot, strike, tte, vol, rate, yield)
	return NormPDF(d1) * math.Exp(-yield*tte) / (spot * vol * math.Sqrt(tte)), nil
}

// Theta returns the annualized time decay. Divide by 365 for per-day.
func Theta(spot, strike, tte, vol, rate float64, optType models.OptionType, yield float64) (float64, error) {
	if err := validate(spot, strike, tte, vol); err != nil {
		return 0, err
	}
	if tte == 0 || spot == 0 {
		return 0, nil
	}
	if vol < MinVolatility {
		vol = MinVolatility
	}
	d1, d2 := d1d2(spot, strike, tte, vol, rate, yield)
	discSpot := spot * math.Exp(-yield*tte)
	discStrike := strike * math.Exp(-rate*tte)
	decay := -discSpot * NormPDF(d1) * vol / (2 * math.Sqrt(tte))
	if optType == models.Call {
		return decay - rate*discStrike*NormCDF(d2) + yield*discSpot*NormCDF(d1), nil
	}
	return decay + rate*discStrike*NormCDF(-d2) - yield*discSpot*NormCDF(-d1), nil
}

// Vega returns the raw sensitivity to a full (100%) volatility move.
// Scale by 0.01 for a 1% move.
func Vega(spot, strike, tte, vol, rate, yield float64) (float64, error) {
	if err := validate(spot, strike, tte, vol); err != nil {
		return 0, err
	}
	if tte == 0 || spot == 0 {
		return 0, nil
	}
	if vol < MinVolatility {
		vol = MinVolatility
	}
	d1, _ := d1d2(spot, strike, tte, vol, rate, yield)
	return spot * math.Exp(-yield*tte) * NormPDF(d1) * math.Sqrt(tte), nil
}

// Rho returns the raw sensitivity to a full (100%) rate move. Scale by
// 0.01 for a 1% move.
func Rho(spot, strike, tte, vol, rate float64, optType models.OptionType, yield float64) (float64, error) {
	if err := validate(spot, strike, tte, vol); err != nil {
		return 0, err
	}
	if tte == 0 || spot == 0 {
		return 0, nil
	}
	if vol < MinVolatility {
		vol = MinVolatility
	}
	_, d2 := d1d2(spot, strike, tte, vol, rate, yield)
	discStrike := strike * tte * math.Exp(-rate*tte)
	if optType == models.Call {
		return discStrike * NormCDF(d2), nil
	}
	return -discStrike * NormCDF(-d2), nil
}
