package risk

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"options-analytics/internal/config"
	"options-analytics/internal/greeks"
	"options-analytics/internal/models"
	"options-analytics/internal/payoff"
)

func newTestEngine() *Engine {
	cfg := config.Default()
	return NewEngine(cfg.Risk, greeks.NewEngine(cfg.Greeks), payoff.NewEngine(cfg.Payoff))
}

func mustLeg(t *testing.T, optType models.OptionType, position models.Position, strike, premium float64, qty int) *models.OptionContract {
	t.Helper()
	leg, err := models.NewOptionContract(
		"XYZ",
		decimal.NewFromFloat(strike),
		time.Now().AddDate(0, 1, 0),
		optType,
		position,
		qty,
		decimal.NewFromFloat(premium),
	)
	if err != nil {
		t.Fatalf("NewOptionContract: %v", err)
	}
	leg.UnderlyingPrice = 100
	leg.ImpliedVol = 0.25
	leg.RiskFreeRate = 0.05
	return leg
}

func mustStrategy(t *testing.T, name string, legs ...*models.OptionContract) *models.Strategy {
	t.Helper()
	s, err := models.NewStrategy(name, legs...)
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}
	return s
}

func TestValueAtRisk(t *testing.T) {
	engine := newTestEngine()
	leg := mustLeg(t, models.Call, models.Long, 100, 5, 2)
	s := mustStrategy(t, "long-calls", leg)

	result, err := engine.ValueAtRisk(s, 0.95, 1)
	if err != nil {
		t.Fatalf("ValueAtRisk: %v", err)
	}

	// Notional: 5 x 2 x 100 = 1000. Daily vol: 0.25/sqrt(252).
	if !result.Notional.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Notional = %s, want 1000", result.Notional)
	}
	wantDaily := 0.25 / math.Sqrt(252)
	if math.Abs(result.DailyVolatility-wantDaily) > 1e-9 {
		t.Errorf("DailyVolatility = %.6f, want %.6f", result.DailyVolatility, wantDaily)
	}
	wantVaR := 1000 * wantDaily * 1.645
	got := result.ValueAtRisk.InexactFloat64()
	if math.Abs(got-wantVaR) > 0.01 {
		t.Errorf("VaR = %.4f, want %.4f", got, wantVaR)
	}
}

func TestValueAtRiskHorizonScaling(t *testing.T) {
	engine := newTestEngine()
	s := mustStrategy(t, "long-call", mustLeg(t, models.Call, models.Long, 100, 5, 1))

	one, err := engine.ValueAtRisk(s, 0.95, 1)
	if err != nil {
		t.Fatalf("ValueAtRisk: %v", err)
	}
	four, err := engine.ValueAtRisk(s, 0.95, 4)
	if err != nil {
		t.Fatalf("ValueAtRisk: %v", err)
	}

	// Square-root-of-time: 4-day VaR is twice the 1-day figure.
	ratio := four.ValueAtRisk.InexactFloat64() / one.ValueAtRisk.InexactFloat64()
	if math.Abs(ratio-2) > 1e-6 {
		t.Errorf("4-day / 1-day VaR ratio = %.6f, want 2", ratio)
	}
}

func TestValueAtRiskInvalidInputs(t *testing.T) {
	engine := newTestEngine()
	s := mustStrategy(t, "long-call", mustLeg(t, models.Call, models.Long, 100, 5, 1))

	if _, err := engine.ValueAtRisk(s, 0.85, 1); err == nil {
		t.Error("expected error for unsupported confidence level")
	}
	if _, err := engine.ValueAtRisk(s, 0.95, 0); err == nil {
		t.Error("expected error for zero horizon")
	}

	noIV := mustLeg(t, models.Call, models.Long, 100, 5, 1)
	noIV.ImpliedVol = 0
	s2 := mustStrategy(t, "no-iv", noIV)
	if _, err := engine.ValueAtRisk(s2, 0.95, 1); err == nil {
		t.Error("expected error for missing implied vol")
	}
}

func TestProbabilityOfProfitReproducible(t *testing.T) {
	engine := newTestEngine()
	s := mustStrategy(t, "long-call", mustLeg(t, models.Call, models.Long, 100, 5, 1))

	now := time.Now()
	a, err := engine.ProbabilityOfProfit(s, 5000, 42, now)
	if err != nil {
		t.Fatalf("ProbabilityOfProfit: %v", err)
	}
	b, err := engine.ProbabilityOfProfit(s, 5000, 42, now)
	if err != nil {
		t.Fatalf("ProbabilityOfProfit: %v", err)
	}

	if a.ProbabilityOfProfit != b.ProbabilityOfProfit || !a.ExpectedValue.Equal(b.ExpectedValue) {
		t.Error("same seed should reproduce identical results")
	}
	if a.Seed != 42 || a.Simulations != 5000 {
		t.Errorf("result metadata wrong: seed=%d sims=%d", a.Seed, a.Simulations)
	}
}

func TestProbabilityOfProfitDeepOTM(t *testing.T) {
	engine := newTestEngine()

	// A far OTM call a month out almost never finishes profitable.
	leg := mustLeg(t, models.Call, models.Long, 160, 0.10, 1)
	s := mustStrategy(t, "lottery-ticket", leg)

	result, err := engine.ProbabilityOfProfit(s, 10000, 7, time.Now())
	if err != nil {
		t.Fatalf("ProbabilityOfProfit: %v", err)
	}
	if result.ProbabilityOfProfit > 0.05 {
		t.Errorf("POP = %.4f for deep OTM call, want below 0.05", result.ProbabilityOfProfit)
	}
}

func TestProbabilityOfProfitSimulationBounds(t *testing.T) {
	engine := newTestEngine()
	s := mustStrategy(t, "long-call", mustLeg(t, models.Call, models.Long, 100, 5, 1))
	cfg := config.Default().Risk

	over, err := engine.ProbabilityOfProfit(s, cfg.MaxSimulations*10, 1, time.Now())
	if err != nil {
		t.Fatalf("ProbabilityOfProfit: %v", err)
	}
	if over.Simulations != cfg.MaxSimulations {
		t.Errorf("Simulations = %d, want clamped to %d", over.Simulations, cfg.MaxSimulations)
	}

	def, err := engine.ProbabilityOfProfit(s, 0, 1, time.Now())
	if err != nil {
		t.Fatalf("ProbabilityOfProfit: %v", err)
	}
	if def.Simulations != cfg.DefaultSimulations {
		t.Errorf("Simulations = %d, want default %d", def.Simulations, cfg.DefaultSimulations)
	}
}

func TestScenarioLinear(t *testing.T) {
	engine := newTestEngine()
	s := mustStrategy(t, "long-call", mustLeg(t, models.Call, models.Long, 100, 5, 1))
	now := time.Now()

	up, err := engine.ScenarioLinear(s, 5, 0, 0, now)
	if err != nil {
		t.Fatalf("ScenarioLinear: %v", err)
	}
	if up.Method != "linear_greeks" {
		t.Errorf("Method = %q, want linear_greeks", up.Method)
	}
	// Long call gains on an up move.
	if up.EstimatedPnL.Sign() <= 0 {
		t.Errorf("up-move P&L = %s, want positive", up.EstimatedPnL)
	}

	// Pure time decay scenario loses money on a long option.
	decay, err := engine.ScenarioLinear(s, 0, 0, 5, now)
	if err != nil {
		t.Fatalf("ScenarioLinear: %v", err)
	}
	if decay.EstimatedPnL.Sign() >= 0 {
		t.Errorf("decay P&L = %s, want negative", decay.EstimatedPnL)
	}
}

func TestScenarioRepriceCapturesConvexity(t *testing.T) {
	engine := newTestEngine()
	s := mustStrategy(t, "long-call", mustLeg(t, models.Call, models.Long, 100, 5, 1))
	now := time.Now()

	linear, err := engine.ScenarioLinear(s, 10, 0, 0, now)
	if err != nil {
		t.Fatalf("ScenarioLinear: %v", err)
	}
	reprice, err := engine.ScenarioReprice(s, 10, 0, 0, now)
	if err != nil {
		t.Fatalf("ScenarioReprice: %v", err)
	}
	if reprice.Method != "full_reprice" {
		t.Errorf("Method = %q, want full_reprice", reprice.Method)
	}

	// On a large up move the long call's positive gamma makes the full
	// reprice exceed the linear estimate.
	if !reprice.EstimatedPnL.GreaterThan(linear.EstimatedPnL) {
		t.Errorf("reprice %s should exceed linear %s on a large move", reprice.EstimatedPnL, linear.EstimatedPnL)
	}
}

func TestMarginRequirement(t *testing.T) {
	engine := newTestEngine()

	// Short 100-put, spot 100, premium 4: 0.20 x 10000 + 400 - 0 = 2400.
	short := mustLeg(t, models.Put, models.Short, 100, 4, 1)
	long := mustLeg(t, models.Call, models.Long, 110, 1, 1)
	s := mustStrategy(t, "mixed", short, long)

	result, err := engine.MarginRequirement(s)
	if err != nil {
		t.Fatalf("MarginRequirement: %v", err)
	}

	if !result.PerLeg[0].Equal(decimal.NewFromInt(2400)) {
		t.Errorf("short leg margin = %s, want 2400", result.PerLeg[0])
	}
	if !result.PerLeg[1].IsZero() {
		t.Errorf("long leg margin = %s, want 0", result.PerLeg[1])
	}
	if !result.Total.Equal(decimal.NewFromInt(2400)) {
		t.Errorf("total = %s, want 2400", result.Total)
	}
}

func TestMarginRequirementOTMOffset(t *testing.T) {
	engine := newTestEngine()

	// Short 110-call, spot 100: OTM by 10. 2000 + 300 - 1000 = 1300.
	short := mustLeg(t, models.Call, models.Short, 110, 3, 1)
	s := mustStrategy(t, "short-call", short)

	result, err := engine.MarginRequirement(s)
	if err != nil {
		t.Fatalf("MarginRequirement: %v", err)
	}
	if !result.Total.Equal(decimal.NewFromInt(1300)) {
		t.Errorf("total = %s, want 1300", result.Total)
	}
}

// Margin never drops below the premium collected on the short legs.
func TestProperty_MarginFloor(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	engine := newTestEngine()
	expiry := time.Now().AddDate(0, 1, 0)

	properties.Property("margin >= premium collected", prop.ForAll(
		func(strike, spot, premium float64, qty int, isCall bool) bool {
			optType := models.Put
			if isCall {
				optType = models.Call
			}
			leg, err := models.NewOptionContract("XYZ", decimal.NewFromFloat(strike), expiry, optType, models.Short, qty, decimal.NewFromFloat(premium))
			if err != nil {
				return false
			}
			leg.UnderlyingPrice = spot
			leg.ImpliedVol = 0.25

			s, err := models.NewStrategy("short", leg)
			if err != nil {
				return false
			}
			result, err := engine.MarginRequirement(s)
			if err != nil {
				return false
			}

			collected := leg.Premium.Mul(decimal.NewFromInt(int64(qty) * models.ContractMultiplier))
			return result.Total.GreaterThanOrEqual(collected)
		},
		gen.Float64Range(1, 1000),
		gen.Float64Range(1, 1000),
		gen.Float64Range(0, 100),
		gen.IntRange(1, 100),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
