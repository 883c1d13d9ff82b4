package domain

import "time"

// VolumeTrend short-horizon direction of traded volume.
type VolumeTrend string

const (
	VolumeTrendIncreasing VolumeTrend = "increasing"
	VolumeTrendDecreasing VolumeTrend = "decreasing"
	VolumeTrendStable     VolumeTrend = "stable"
)

// VolatilityPattern volatility regime over the trailing candles.
type VolatilityPattern string

const (
	VolatilityHigh   VolatilityPattern = "high"
	VolatilityLow    VolatilityPattern = "low"
	VolatilityNormal VolatilityPattern = "normal"
)

// EnhancedMetrics lightweight trend/volatility/divergence readout
// computed directly from the candle array.
type EnhancedMetrics struct {
	VolumeTrend       VolumeTrend       `json:"volumeTrend"`
	VolatilityPattern VolatilityPattern `json:"volatilityPattern"`
	// VolumePriceDivergence is in [-2, 2]: negative for bearish
	// divergence (price up on falling volume), positive for bullish.
	VolumePriceDivergence float64   `json:"volumePriceDivergence"`
	VolumeChangePercent   float64   `json:"volumeChangePercent"`
	Timestamp             time.Time `json:"timestamp"`
}

// NeutralEnhancedMetrics is the readout for windows too short to trend
// reliably.
func NeutralEnhancedMetrics(ts time.Time) *EnhancedMetrics {
	return &EnhancedMetrics{
		VolumeTrend:       VolumeTrendStable,
		VolatilityPattern: VolatilityNormal,
		Timestamp:         ts,
	}
}
