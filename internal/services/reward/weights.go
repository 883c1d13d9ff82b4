// Package reward scores signal coherence: a set of independent checks
// over already-computed indicators, each adding a weighted bonus, with
// the total clamped to a cap.
package reward

import (
	"os"
	"strconv"
)

// Weights holds the per-check bonuses and the total cap. Load once at
// process start and treat as immutable for the lifetime of a batch.
type Weights struct {
	TrendEmaAroon   float64
	VolDelta        float64
	VolDeltaPartial float64
	RegimeStrong    float64
	RegimeModerate  float64
	LiqSafe7        float64
	LiqSafe5        float64
	RsiMomentum     float64
	BtcAligned      float64
	BtcModerate     float64
	PremiumTight    float64
	DivergenceLow   float64
	FuturesCoherent float64
	Cap             float64
}

// DefaultWeights returns the hard-coded defaults.
func DefaultWeights() Weights {
	return Weights{
		TrendEmaAroon:   40,
		VolDelta:        25,
		VolDeltaPartial: 10,
		RegimeStrong:    20,
		RegimeModerate:  10,
		LiqSafe7:        25,
		LiqSafe5:        15,
		RsiMomentum:     10,
		BtcAligned:      20,
		BtcModerate:     10,
		PremiumTight:    10,
		DivergenceLow:   10,
		FuturesCoherent: 10,
		Cap:             60,
	}
}

// WeightsFromEnv overlays the defaults with REW_* environment
// variables. Each variable falls back to its default independently when
// missing or non-numeric, so one malformed override never poisons the
// rest of the set.
func WeightsFromEnv() Weights {
	w := DefaultWeights()
	overlay(&w.TrendEmaAroon, "REW_TREND_EMA_AROON")
	overlay(&w.VolDelta, "REW_VOL_DELTA")
	overlay(&w.VolDeltaPartial, "REW_VOL_DELTA_PARTIAL")
	overlay(&w.RegimeStrong, "REW_REGIME_STRONG")
	overlay(&w.RegimeModerate, "REW_REGIME_MOD")
	overlay(&w.LiqSafe7, "REW_LIQ_SAFE_7")
	overlay(&w.LiqSafe5, "REW_LIQ_SAFE_5")
	overlay(&w.RsiMomentum, "REW_RSI_MOMO")
	overlay(&w.BtcAligned, "REW_BTC_ALIGN")
	overlay(&w.BtcModerate, "REW_BTC_MOD")
	overlay(&w.PremiumTight, "REW_PREMIUM_TIGHT")
	overlay(&w.DivergenceLow, "REW_DIV_LOW")
	overlay(&w.FuturesCoherent, "REW_FUTURES_COH")
	overlay(&w.Cap, "REWARD_CAP")
	return w
}

func overlay(dst *float64, name string) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return
	}
	*dst = v
}
