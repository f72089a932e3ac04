package models

import "time"

// OptionData represents collaborator-supplied market data for a single
// contract in a chain.
type OptionData struct {
	LTP          float64 `json:"ltp"`
	OpenInterest int64   `json:"open_interest"`
	Volume       int64   `json:"volume"`
	IV           float64 `json:"iv"`
}

// OptionStrike represents a single strike in an option chain. Either
// side may be absent.
type OptionStrike struct {
	Strike float64     `json:"strike"`
	Call   *OptionData `json:"call,omitempty"`
	Put    *OptionData `json:"put,omitempty"`
}

// OptionChain represents one expiration's option chain.
type OptionChain struct {
	Symbol    string         `json:"symbol"`
	SpotPrice float64        `json:"spot_price"`
	Expiry    time.Time      `json:"expiry"`
	Strikes   []OptionStrike `json:"strikes"`
}

// GammaExposureRow holds one strike's dealer gamma exposure figures.
type GammaExposureRow struct {
	Strike    float64 `json:"strike"`
	CallGamma float64 `json:"call_gamma"`
	PutGamma  float64 `json:"put_gamma"`
	CallOI    int64   `json:"call_oi"`
	PutOI     int64   `json:"put_oi"`
	CallGEX   float64 `json:"call_gex"`
	PutGEX    float64 `json:"put_gex"`
	NetGEX    float64 `json:"net_gex"`
}

// MarketRegime classifies the chain-wide dealer gamma positioning.
type MarketRegime string

const (
	RegimePositiveGamma MarketRegime = "positive_gamma"
	RegimeNegativeGamma MarketRegime = "negative_gamma"
	RegimeNearFlip      MarketRegime = "near_flip"
	RegimeNeutral       MarketRegime = "neutral"
)

// GammaFlipLevel is the derived zero-crossing of chain net GEX. A nil
// FlipStrike means the chain never changes sign.
type GammaFlipLevel struct {
	FlipStrike *float64     `json:"flip_strike,omitempty"`
	Regime     MarketRegime `json:"regime"`
	// DistancePct is the relative distance from spot to the flip
	// strike, zero when no flip exists.
	DistancePct float64 `json:"distance_pct"`
}

// GEXProfile is the chain-wide gamma exposure summary.
type GEXProfile struct {
	Symbol       string             `json:"symbol"`
	SpotPrice    float64            `json:"spot_price"`
	Rows         []GammaExposureRow `json:"rows"`
	TotalCallGEX float64            `json:"total_call_gex"`
	TotalPutGEX  float64            `json:"total_put_gex"`
	TotalNetGEX  float64            `json:"total_net_gex"`
	Flip         GammaFlipLevel     `json:"flip"`
}

// PinRiskSnapshot is derived for the nearest expiration inside the
// configured day window.
type PinRiskSnapshot struct {
	Symbol           string    `json:"symbol"`
	Expiry           time.Time `json:"expiry"`
	DaysToExpiration float64   `json:"days_to_expiration"`
	MaxPainStrike    float64   `json:"max_pain_strike"`
	HighOIStrikes    []float64 `json:"high_oi_strikes"`
	Score            float64   `json:"score"`
}
