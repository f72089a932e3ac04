// Package models provides domain models for the options analytics library.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"options-analytics/internal/errors"
)

// OptionType represents the type of an option contract.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// Position represents the direction of an option position.
type Position string

const (
	Long  Position = "LONG"
	Short Position = "SHORT"
)

// ContractMultiplier is the number of shares per standard option contract.
const ContractMultiplier = 100

// OptionContract represents a single option leg.
//
// Strike and Premium are exact decimal amounts. UnderlyingPrice and
// ImpliedVol are market inputs supplied by a data collaborator; a zero
// value means the field is absent.
type OptionContract struct {
	Symbol          string
	Strike          decimal.Decimal
	Expiry          time.Time
	Type            OptionType
	Position        Position
	Quantity        int
	Premium         decimal.Decimal
	UnderlyingPrice float64
	ImpliedVol      float64
	RiskFreeRate    float64
	DividendYield   float64

	// Greeks is a memoized projection, recomputable at any time.
	// It is never the source of truth.
	Greeks *OptionGreeks
}

// NewOptionContract creates and validates an option contract.
func NewOptionContract(symbol string, strike decimal.Decimal, expiry time.Time, optType OptionType, position Position, quantity int, premium decimal.Decimal) (*OptionContract, error) {
	if quantity <= 0 {
		return nil, errors.NewInvalidInputError("quantity", quantity, "must be positive")
	}
	if !strike.IsPositive() {
		return nil, errors.NewInvalidInputError("strike", strike.String(), "must be positive")
	}
	if premium.IsNegative() {
		return nil, errors.NewInvalidInputError("premium", premium.String(), "must be non-negative")
	}
	if !expiry.After(time.Now()) {
		return nil, errors.NewInvalidInputError("expiry", expiry.Format("2006-01-02"), "must be in the future")
	}
	if optType != Call && optType != Put {
		return nil, errors.NewInvalidInputError("type", string(optType), "must be CALL or PUT")
	}
	if position != Long && position != Short {
		return nil, errors.NewInvalidInputError("position", string(position), "must be LONG or SHORT")
	}
	return &OptionContract{
		Symbol:   symbol,
		Strike:   strike,
		Expiry:   expiry,
		Type:     optType,
		Position: position,
		Quantity: quantity,
		Premium:  premium,
	}, nil
}

// HasMarketData reports whether the leg carries the market inputs the
// Greeks and risk engines require.
func (o *OptionContract) HasMarketData() bool {
	return o.UnderlyingPrice > 0 && o.ImpliedVol > 0
}

// PositionSign returns +1 for long legs and -1 for short legs.
func (o *OptionContract) PositionSign() int {
	if o.Position == Short {
		return -1
	}
	return 1
}

// TimeToExpiry returns the remaining life of the option in years.
func (o *OptionContract) TimeToExpiry(now time.Time) float64 {
	t := o.Expiry.Sub(now).Hours() / 24 / 365
	if t < 0 {
		return 0
	}
	return t
}

// IntrinsicValue returns the exercise value of one share at the given
// underlying price.
func (o *OptionContract) IntrinsicValue(underlying decimal.Decimal) decimal.Decimal {
	var intrinsic decimal.Decimal
	if o.Type == Call {
		intrinsic = underlying.Sub(o.Strike)
	} else {
		intrinsic = o.Strike.Sub(underlying)
	}
	if intrinsic.IsNegative() {
		return decimal.Zero
	}
	return intrinsic
}

// legSignature identifies a leg for duplicate detection.
type legSignature struct {
	strike   string
	optType  OptionType
	position Position
	expiry   int64
}

func (o *OptionContract) signature() legSignature {
	return legSignature{
		strike:   o.Strike.String(),
		optType:  o.Type,
		position: o.Position,
		expiry:   o.Expiry.Unix(),
	}
}

// Strategy is an ordered collection of option legs on one underlying.
type Strategy struct {
	Name string
	Legs []*OptionContract
}

// NewStrategy creates and validates a multi-leg strategy. All legs must
// share one underlying, and no two legs may carry the identical
// (strike, type, position, expiry) signature.
func NewStrategy(name string, legs ...*OptionContract) (*Strategy, error) {
	if len(legs) == 0 {
		return nil, errors.NewInvalidInputError("legs", 0, "strategy requires at least one leg")
	}
	symbol := legs[0].Symbol
	seen := make(map[legSignature]bool, len(legs))
	for _, leg := range legs {
		if leg.Symbol != symbol {
			return nil, errors.NewInvalidInputError("legs", leg.Symbol, "all legs must share one underlying")
		}
		sig := leg.signature()
		if seen[sig] {
			return nil, errors.NewInvalidInputError("legs", sig.strike, "duplicate leg signature")
		}
		seen[sig] = true
	}
	return &Strategy{Name: name, Legs: legs}, nil
}

// Symbol returns the shared underlying symbol.
func (s *Strategy) Symbol() string {
	if len(s.Legs) == 0 {
		return ""
	}
	return s.Legs[0].Symbol
}

// NetPremium returns the aggregate premium paid (positive) or collected
// (negative) across all legs, per contract multiplier.
func (s *Strategy) NetPremium() decimal.Decimal {
	net := decimal.Zero
	mult := decimal.NewFromInt(ContractMultiplier)
	for _, leg := range s.Legs {
		cost := leg.Premium.Mul(decimal.NewFromInt(int64(leg.Quantity))).Mul(mult)
		if leg.Position == Short {
			cost = cost.Neg()
		}
		net = net.Add(cost)
	}
	return net
}

// StrikeRange returns the lowest and highest strikes across the legs.
func (s *Strategy) StrikeRange() (min, max decimal.Decimal) {
	min = s.Legs[0].Strike
	max = s.Legs[0].Strike
	for _, leg := range s.Legs[1:] {
		if leg.Strike.LessThan(min) {
			min = leg.Strike
		}
		if leg.Strike.GreaterThan(max) {
			max = leg.Strike
		}
	}
	return min, max
}
