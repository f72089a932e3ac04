package models

import "github.com/shopspring/decimal"

// PayoffDiagram holds a sampled P&L curve for a strategy.
//
// MaxProfit and MaxLoss are the sampled extrema; on sharply kinked
// payoffs the true extremum can fall between sample points.
type PayoffDiagram struct {
	Prices      []float64
	PnL         []decimal.Decimal
	Breakevens  []float64
	MaxProfit   decimal.Decimal
	MaxProfitAt float64
	MaxLoss     decimal.Decimal
	MaxLossAt   float64
	NetPremium  decimal.Decimal
}

// VaRResult is a parametric value-at-risk estimate.
type VaRResult struct {
	ValueAtRisk     decimal.Decimal
	ConfidenceLevel float64
	HorizonDays     float64
	Notional        decimal.Decimal
	DailyVolatility float64
}

// SimulationResult holds Monte Carlo probability-of-profit output.
type SimulationResult struct {
	ProbabilityOfProfit float64
	ExpectedValue       decimal.Decimal
	StdDev              decimal.Decimal
	Simulations         int
	Seed                int64
}

// ScenarioResult is an estimated P&L under a shocked market state.
type ScenarioResult struct {
	EstimatedPnL   decimal.Decimal
	PriceChangePct float64
	VolChangePct   float64
	DaysForward    float64
	// Method names the estimator that produced the figure:
	// "linear_greeks" or "full_reprice".
	Method string
}

// MarginEstimate is a heuristic margin requirement for a strategy.
// Short legs contribute per the 20%-of-notional rule; long legs
// contribute nothing.
type MarginEstimate struct {
	Total  decimal.Decimal
	PerLeg []decimal.Decimal
}
