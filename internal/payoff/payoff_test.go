package payoff

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"options-analytics/internal/config"
	"options-analytics/internal/models"
)

func newTestEngine() *Engine {
	return NewEngine(config.Default().Payoff)
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

func TestPnLAtExpirationSingleLegs(t *testing.T) {
	testCases := []struct {
		name       string
		optType    models.OptionType
		position   models.Position
		strike     float64
		premium    float64
		underlying float64
		want       float64
	}{
		{"long call itm", models.Call, models.Long, 100, 5, 110, 500},
		{"long call otm", models.Call, models.Long, 100, 5, 95, -500},
		{"long call at breakeven", models.Call, models.Long, 100, 5, 105, 0},
		{"short call itm", models.Call, models.Short, 100, 5, 110, -500},
		{"short call otm", models.Call, models.Short, 100, 5, 95, 500},
		{"long put itm", models.Put, models.Long, 100, 4, 80, 1600},
		{"long put otm", models.Put, models.Long, 100, 4, 110, -400},
		{"short put itm", models.Put, models.Short, 100, 4, 80, -1600},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			leg := mustLeg(t, tc.optType, tc.position, tc.strike, tc.premium, 1)
			got := PnLAtExpiration(leg, decimal.NewFromFloat(tc.underlying))
			if !got.Equal(decimal.NewFromFloat(tc.want)) {
				t.Errorf("PnL = %s, want %.2f", got, tc.want)
			}
		})
	}
}

func TestDiagramLongPut(t *testing.T) {
	engine := newTestEngine()
	leg := mustLeg(t, models.Put, models.Long, 100, 4, 1)
	s := mustStrategy(t, "long-put", leg)

	diagram, err := engine.Diagram(s, DiagramOptions{
		MinPrice:     80,
		MaxPrice:     120,
		NumPoints:    401,
		AtExpiration: true,
	})
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}

	if !diagram.MaxProfit.Equal(decimal.NewFromInt(1600)) {
		t.Errorf("MaxProfit = %s, want 1600", diagram.MaxProfit)
	}
	if diagram.MaxProfitAt != 80 {
		t.Errorf("MaxProfitAt = %.2f, want 80", diagram.MaxProfitAt)
	}
	if !diagram.MaxLoss.Equal(decimal.NewFromInt(-400)) {
		t.Errorf("MaxLoss = %s, want -400", diagram.MaxLoss)
	}
	if len(diagram.Breakevens) != 1 {
		t.Fatalf("expected 1 breakeven, got %v", diagram.Breakevens)
	}
	if math.Abs(diagram.Breakevens[0]-96) > 0.01 {
		t.Errorf("breakeven = %.4f, want 96", diagram.Breakevens[0])
	}
}

func TestDiagramBullCallSpread(t *testing.T) {
	engine := newTestEngine()
	long := mustLeg(t, models.Call, models.Long, 100, 5, 1)
	short := mustLeg(t, models.Call, models.Short, 105, 2, 1)
	s := mustStrategy(t, "bull-call-spread", long, short)

	diagram, err := engine.Diagram(s, DiagramOptions{
		MinPrice:     90,
		MaxPrice:     115,
		NumPoints:    501,
		AtExpiration: true,
	})
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}

	// Net debit 3: max profit 200 above 105, max loss -300 below 100,
	// breakeven at 103.
	if !diagram.MaxProfit.Equal(decimal.NewFromInt(200)) {
		t.Errorf("MaxProfit = %s, want 200", diagram.MaxProfit)
	}
	if !diagram.MaxLoss.Equal(decimal.NewFromInt(-300)) {
		t.Errorf("MaxLoss = %s, want -300", diagram.MaxLoss)
	}
	if len(diagram.Breakevens) != 1 {
		t.Fatalf("expected 1 breakeven, got %v", diagram.Breakevens)
	}
	if math.Abs(diagram.Breakevens[0]-103) > 0.01 {
		t.Errorf("breakeven = %.4f, want 103", diagram.Breakevens[0])
	}
}

func TestDiagramStraddleTwoBreakevens(t *testing.T) {
	engine := newTestEngine()
	call := mustLeg(t, models.Call, models.Long, 100, 5, 1)
	put := mustLeg(t, models.Put, models.Long, 100, 4, 1)
	s := mustStrategy(t, "straddle", call, put)

	diagram, err := engine.Diagram(s, DiagramOptions{
		MinPrice:     70,
		MaxPrice:     130,
		NumPoints:    601,
		AtExpiration: true,
	})
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}

	// Total debit 9: breakevens at 91 and 109.
	if len(diagram.Breakevens) != 2 {
		t.Fatalf("expected 2 breakevens, got %v", diagram.Breakevens)
	}
	if math.Abs(diagram.Breakevens[0]-91) > 0.01 || math.Abs(diagram.Breakevens[1]-109) > 0.01 {
		t.Errorf("breakevens = %v, want [91, 109]", diagram.Breakevens)
	}
}

func TestDiagramDefaultRange(t *testing.T) {
	engine := newTestEngine()
	leg := mustLeg(t, models.Call, models.Long, 100, 5, 1)
	s := mustStrategy(t, "long-call", leg)

	diagram, err := engine.Diagram(s, DiagramOptions{AtExpiration: true})
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}

	cfg := config.Default().Payoff
	if math.Abs(diagram.Prices[0]-100*cfg.RangeLowFactor) > 1e-9 {
		t.Errorf("range low = %.2f, want %.2f", diagram.Prices[0], 100*cfg.RangeLowFactor)
	}
	if math.Abs(diagram.Prices[len(diagram.Prices)-1]-100*cfg.RangeHighFactor) > 1e-9 {
		t.Errorf("range high = %.2f, want %.2f", diagram.Prices[len(diagram.Prices)-1], 100*cfg.RangeHighFactor)
	}
	if len(diagram.Prices) != cfg.NumPoints {
		t.Errorf("points = %d, want %d", len(diagram.Prices), cfg.NumPoints)
	}
}

func TestDiagramNoLegs(t *testing.T) {
	engine := newTestEngine()
	if _, err := engine.Diagram(&models.Strategy{}, DiagramOptions{AtExpiration: true}); err == nil {
		t.Error("expected error for empty strategy")
	}
}

func TestPnLCurrentRequiresIV(t *testing.T) {
	leg := mustLeg(t, models.Call, models.Long, 100, 5, 1)
	if _, err := PnLCurrent(leg, 102, time.Now()); err == nil {
		t.Error("expected error for missing implied vol")
	}

	leg.ImpliedVol = 0.25
	pnl, err := PnLCurrent(leg, 102, time.Now())
	if err != nil {
		t.Fatalf("PnLCurrent: %v", err)
	}
	// A month out, slightly ITM: model value above zero, so P&L above
	// the full premium loss.
	if pnl.LessThanOrEqual(decimal.NewFromInt(-500)) {
		t.Errorf("unexpected P&L %s for live ITM call", pnl)
	}
}

// At expiration the P&L of a long leg and its mirrored short leg sum
// to zero at every underlying price.
func TestProperty_LongShortPnLMirror(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	expiry := time.Now().AddDate(0, 1, 0)

	properties.Property("long and short sum to zero", prop.ForAll(
		func(strike, premium, underlying float64, qty int, isCall bool) bool {
			optType := models.Put
			if isCall {
				optType = models.Call
			}
			long, err := models.NewOptionContract("XYZ", decimal.NewFromFloat(strike), expiry, optType, models.Long, qty, decimal.NewFromFloat(premium))
			if err != nil {
				return false
			}
			short, err := models.NewOptionContract("XYZ", decimal.NewFromFloat(strike), expiry, optType, models.Short, qty, decimal.NewFromFloat(premium))
			if err != nil {
				return false
			}
			u := decimal.NewFromFloat(underlying)
			sum := PnLAtExpiration(long, u).Add(PnLAtExpiration(short, u))
			return sum.IsZero()
		},
		gen.Float64Range(1, 1000),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 2000),
		gen.IntRange(1, 100),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
