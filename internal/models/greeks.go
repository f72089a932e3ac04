package models

// OptionGreeks holds the position-scaled sensitivities of a single leg.
// Theta is per calendar day, vega per 1% volatility move, rho per 1%
// rate move. Values carry the position sign and the quantity times
// contract multiplier scaling.
type OptionGreeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Add returns the elementwise sum of two Greek sets.
func (g OptionGreeks) Add(other OptionGreeks) OptionGreeks {
	return OptionGreeks{
		Delta: g.Delta + other.Delta,
		Gamma: g.Gamma + other.Gamma,
		Theta: g.Theta + other.Theta,
		Vega:  g.Vega + other.Vega,
		Rho:   g.Rho + other.Rho,
	}
}

// Scale returns the Greeks multiplied by a scalar factor.
func (g OptionGreeks) Scale(factor float64) OptionGreeks {
	return OptionGreeks{
		Delta: g.Delta * factor,
		Gamma: g.Gamma * factor,
		Theta: g.Theta * factor,
		Vega:  g.Vega * factor,
		Rho:   g.Rho * factor,
	}
}

// AggregatedGreeks holds the summed Greeks across all legs of a
// strategy, the same figures per single contract, and a qualitative
// risk profile classification.
type AggregatedGreeks struct {
	Total       OptionGreeks
	PerContract OptionGreeks
	RiskProfile []string
}
