package domain

// IndicatorSet already-computed technical indicators for one asset.
// Zero values simply fail the reward checks that need them.
type IndicatorSet struct {
	Price         float64 `json:"price"`
	EMA20         float64 `json:"ema20"`
	EMA50         float64 `json:"ema50"`
	RSI14         float64 `json:"rsi14"`
	MACDHistogram float64 `json:"macdHistogram"`
	ADX           float64 `json:"adx"`
	AroonUp       float64 `json:"aroonUp"`
	AroonDown     float64 `json:"aroonDown"`
	// BollingerWidth is the relative band width (upper-lower)/middle.
	BollingerWidth float64 `json:"bollingerWidth"`
}

// TrendAlignment labeled trend context supplied by the trend analysis.
type TrendAlignment struct {
	Trend TrendDirection `json:"trend"`
}

// VolumeConfirmation externally supplied volume/delta confirmation.
type VolumeConfirmation struct {
	Confirmed bool `json:"confirmed"`
	// Strength is "strong", "moderate" or "weak".
	Strength string `json:"strength"`
	// Direction is "buy" or "sell".
	Direction string `json:"direction"`
}

// FuturesData optional derivatives context. Nil pointers mean the
// upstream source had no data; the related checks are skipped.
type FuturesData struct {
	// PremiumPct perp premium over spot, in percent.
	PremiumPct *float64 `json:"premiumPct"`
	// SpotPerpDivergencePct absolute spot/perp price divergence, percent.
	SpotPerpDivergencePct *float64 `json:"spotPerpDivergencePct"`
	FundingRate           *float64 `json:"fundingRate"`
	OpenInterestChangePct *float64 `json:"openInterestChangePct"`
}

// MarketData is the optional-field input bag for the reward scorer.
// Every section may be nil; a missing section silently fails the checks
// that depend on it.
type MarketData struct {
	Indicators         *IndicatorSet       `json:"indicators"`
	TrendAlignment     *TrendAlignment     `json:"trendAlignment"`
	Futures            *FuturesData        `json:"futures"`
	VolumeConfirmation *VolumeConfirmation `json:"volumeConfirmation"`
	// BTCCorrelation correlation of the asset with BTC in [-1, 1].
	BTCCorrelation *float64 `json:"btcCorrelation"`
	// LiquidationDistancePct distance to the nearest liquidation level,
	// in percent of current price.
	LiquidationDistancePct *float64 `json:"liquidationDistancePct"`
}

// RewardBonus additive confidence bonus produced by the reward scorer.
// Flags counts satisfied checks and always equals len(Reasons).
type RewardBonus struct {
	Reward  float64  `json:"reward"`
	Reasons []string `json:"reasons"`
	Flags   int      `json:"flags"`
}
