package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func futureExpiry() time.Time {
	return time.Now().AddDate(0, 1, 0)
}

func validLeg(t *testing.T, strike float64, optType OptionType, position Position) *OptionContract {
	t.Helper()
	leg, err := NewOptionContract("SPY", decimal.NewFromFloat(strike), futureExpiry(), optType, position, 1, decimal.NewFromFloat(2.50))
	if err != nil {
		t.Fatalf("NewOptionContract: %v", err)
	}
	return leg
}

func TestNewOptionContractValidation(t *testing.T) {
	expiry := futureExpiry()
	tests := []struct {
		name     string
		strike   float64
		optType  OptionType
		position Position
		quantity int
		premium  float64
		wantErr  bool
	}{
		{"valid call", 100, Call, Long, 1, 2.50, false},
		{"valid short put", 95, Put, Short, 3, 1.10, false},
		{"zero strike", 0, Call, Long, 1, 2.50, true},
		{"negative strike", -5, Call, Long, 1, 2.50, true},
		{"zero quantity", 100, Call, Long, 0, 2.50, true},
		{"negative quantity", 100, Call, Long, -2, 2.50, true},
		{"negative premium", 100, Call, Long, 1, -0.01, true},
		{"zero premium ok", 100, Call, Long, 1, 0, false},
		{"bad type", 100, "CALLPUT", Long, 1, 2.50, true},
		{"bad position", 100, Call, "FLAT", 1, 2.50, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOptionContract("SPY", decimal.NewFromFloat(tt.strike), expiry, tt.optType, tt.position, tt.quantity, decimal.NewFromFloat(tt.premium))
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewOptionContractRejectsPastExpiry(t *testing.T) {
	past := time.Now().AddDate(0, 0, -1)
	_, err := NewOptionContract("SPY", decimal.NewFromInt(100), past, Call, Long, 1, decimal.NewFromInt(2))
	if err == nil {
		t.Error("expected error for past expiry")
	}
}

func TestIntrinsicValue(t *testing.T) {
	expiry := futureExpiry()
	tests := []struct {
		name       string
		strike     float64
		optType    OptionType
		underlying float64
		want       float64
	}{
		{"itm call", 100, Call, 110, 10},
		{"otm call", 100, Call, 90, 0},
		{"atm call", 100, Call, 100, 0},
		{"itm put", 100, Put, 85, 15},
		{"otm put", 100, Put, 105, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leg, err := NewOptionContract("SPY", decimal.NewFromFloat(tt.strike), expiry, tt.optType, Long, 1, decimal.NewFromInt(1))
			if err != nil {
				t.Fatalf("NewOptionContract: %v", err)
			}
			got := leg.IntrinsicValue(decimal.NewFromFloat(tt.underlying))
			if !got.Equal(decimal.NewFromFloat(tt.want)) {
				t.Errorf("IntrinsicValue = %s, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeToExpiry(t *testing.T) {
	leg := validLeg(t, 100, Call, Long)
	leg.Expiry = time.Date(2026, 6, 19, 16, 0, 0, 0, time.UTC)

	now := leg.Expiry.AddDate(0, 0, -365)
	tte := leg.TimeToExpiry(now)
	if tte < 0.999 || tte > 1.001 {
		t.Errorf("TimeToExpiry one year out = %.4f, want 1", tte)
	}

	if got := leg.TimeToExpiry(leg.Expiry.Add(time.Hour)); got != 0 {
		t.Errorf("TimeToExpiry past expiry = %v, want 0", got)
	}
}

func TestNewStrategyValidation(t *testing.T) {
	callA := validLeg(t, 100, Call, Long)
	callB := validLeg(t, 100, Call, Long)
	put := validLeg(t, 100, Put, Long)

	if _, err := NewStrategy("empty"); err == nil {
		t.Error("expected error for no legs")
	}

	if _, err := NewStrategy("dupe", callA, callB); err == nil {
		t.Error("expected error for duplicate leg signature")
	}

	other := validLeg(t, 100, Call, Long)
	other.Symbol = "QQQ"
	if _, err := NewStrategy("mixed", callA, other); err == nil {
		t.Error("expected error for mixed underlyings")
	}

	s, err := NewStrategy("straddle", callA, put)
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}
	if s.Symbol() != "SPY" {
		t.Errorf("Symbol = %q, want SPY", s.Symbol())
	}
}

func TestNewStrategyAllowsSameStrikeOppositeSide(t *testing.T) {
	long := validLeg(t, 100, Call, Long)
	short := validLeg(t, 100, Call, Short)
	short.Expiry = long.Expiry

	if _, err := NewStrategy("box-half", long, short); err != nil {
		t.Errorf("NewStrategy: %v", err)
	}
}

func TestNetPremium(t *testing.T) {
	expiry := futureExpiry()
	long, _ := NewOptionContract("SPY", decimal.NewFromInt(100), expiry, Call, Long, 2, decimal.NewFromFloat(3.00))
	short, _ := NewOptionContract("SPY", decimal.NewFromInt(105), expiry, Call, Short, 2, decimal.NewFromFloat(1.25))

	s, err := NewStrategy("bull-call-spread", long, short)
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}

	// 2 x 100 x (3.00 - 1.25) = 350 debit.
	if got := s.NetPremium(); !got.Equal(decimal.NewFromInt(350)) {
		t.Errorf("NetPremium = %s, want 350", got)
	}
}

func TestNetPremiumCredit(t *testing.T) {
	short := validLeg(t, 100, Put, Short)
	s, err := NewStrategy("cash-secured-put", short)
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}
	if got := s.NetPremium(); !got.Equal(decimal.NewFromInt(-250)) {
		t.Errorf("NetPremium = %s, want -250 credit", got)
	}
}

func TestStrikeRange(t *testing.T) {
	legs := []*OptionContract{
		validLeg(t, 105, Call, Short),
		validLeg(t, 95, Put, Short),
		validLeg(t, 110, Call, Long),
		validLeg(t, 90, Put, Long),
	}
	s, err := NewStrategy("iron-condor", legs...)
	if err != nil {
		t.Fatalf("NewStrategy: %v", err)
	}

	min, max := s.StrikeRange()
	if !min.Equal(decimal.NewFromInt(90)) || !max.Equal(decimal.NewFromInt(110)) {
		t.Errorf("StrikeRange = [%s, %s], want [90, 110]", min, max)
	}
}

func TestPositionSign(t *testing.T) {
	if validLeg(t, 100, Call, Long).PositionSign() != 1 {
		t.Error("long sign should be +1")
	}
	if validLeg(t, 100, Call, Short).PositionSign() != -1 {
		t.Error("short sign should be -1")
	}
}

func TestHasMarketData(t *testing.T) {
	leg := validLeg(t, 100, Call, Long)
	if leg.HasMarketData() {
		t.Error("fresh leg should lack market data")
	}
	leg.UnderlyingPrice = 101
	if leg.HasMarketData() {
		t.Error("spot alone is not enough")
	}
	leg.ImpliedVol = 0.22
	if !leg.HasMarketData() {
		t.Error("spot + IV should satisfy HasMarketData")
	}
}
