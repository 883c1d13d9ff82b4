// Package metrics computes short-horizon volume trend, volatility
// regime and volume/price divergence directly from the candle array.
package metrics

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/avolkhov/marketcore/internal/domain"
)

const (
	minCandles     = 14
	trendCandles   = 20
	windowSize     = 10
	threeWindows   = 3 * windowSize
	strongChange   = 0.10
	clearChange    = 0.05
	weakChange     = 0.02
	divergenceMove = 0.005
)

// Calculator is stateless and safe for concurrent use.
type Calculator struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewCalculator creates an enhanced metrics calculator.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger, now: time.Now}
}

// WithClock replaces the wall clock used for timestamps.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	c.now = now
	return c
}

// Compute returns nil below 14 candles. Between 14 and 19 candles there
// is too little data to window reliably, so a neutral readout is
// returned instead of a guess.
func (c *Calculator) Compute(candles []domain.MarketCandle) *domain.EnhancedMetrics {
	if len(candles) < minCandles {
		return nil
	}
	if len(candles) < trendCandles {
		return domain.NeutralEnhancedMetrics(c.now())
	}

	volumes := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, candle := range candles {
		volumes[i], _ = candle.Volume.Float64()
		closes[i], _ = candle.Close.Float64()
	}

	trend, recentChange := volumeTrend(volumes)
	pattern := volatilityPattern(closes)

	return &domain.EnhancedMetrics{
		VolumeTrend:           trend,
		VolatilityPattern:     pattern,
		VolumePriceDivergence: divergence(closes, recentChange),
		VolumeChangePercent:   recentChange * 100,
		Timestamp:             c.now(),
	}
}

// volumeTrend splits the trailing volumes into three 10-period windows
// (older falls back to mid when fewer than 30 candles exist) and
// classifies the recent-vs-mid and mid-vs-older average changes.
func volumeTrend(volumes []float64) (domain.VolumeTrend, float64) {
	n := len(volumes)

	recentAvg := mean(volumes[n-windowSize:])
	midAvg := mean(volumes[n-2*windowSize : n-windowSize])
	olderAvg := midAvg
	if n >= threeWindows {
		olderAvg = mean(volumes[n-threeWindows : n-2*windowSize])
	}

	// a zero-to-positive transition counts as increasing
	if midAvg == 0 {
		if recentAvg > 0 {
			return domain.VolumeTrendIncreasing, 0
		}
		return domain.VolumeTrendStable, 0
	}

	recentChange := (recentAvg - midAvg) / midAvg
	midChange := 0.0
	if olderAvg > 0 {
		midChange = (midAvg - olderAvg) / olderAvg
	}

	switch {
	case (recentChange > clearChange && midChange > weakChange) || recentChange > strongChange:
		return domain.VolumeTrendIncreasing, recentChange
	case (recentChange < -clearChange && midChange < -weakChange) || recentChange < -strongChange:
		return domain.VolumeTrendDecreasing, recentChange
	case recentChange > weakChange:
		return domain.VolumeTrendIncreasing, recentChange
	case recentChange < -weakChange:
		return domain.VolumeTrendDecreasing, recentChange
	}

	return domain.VolumeTrendStable, recentChange
}

// volatilityPattern looks at the mean absolute relative close-to-close
// change over the trailing 10 candles and its standard deviation.
func volatilityPattern(closes []float64) domain.VolatilityPattern {
	n := len(closes)

	changes := make([]float64, 0, windowSize)
	for i := n - windowSize; i < n; i++ {
		if closes[i-1] <= 0 {
			continue
		}
		changes = append(changes, math.Abs(closes[i]-closes[i-1])/closes[i-1])
	}
	if len(changes) == 0 {
		return domain.VolatilityNormal
	}

	avg := mean(changes)
	sd := stddev(changes, avg)

	switch {
	case avg > 0.05 || sd > 0.03:
		return domain.VolatilityHigh
	case avg < 0.01 && sd < 0.005:
		return domain.VolatilityLow
	}
	return domain.VolatilityNormal
}

// divergence scores volume/price divergence in [-2, 2]. Bearish (price
// up on falling volume) maps to [-2, -1], bullish (price down on rising
// volume) to [1, 2]; strong same-direction confirmation nudges +-0.5.
func divergence(closes []float64, volumeChange float64) float64 {
	n := len(closes)
	base := closes[n-windowSize]
	if base <= 0 {
		return 0
	}
	priceChange := (closes[n-1] - base) / base

	if math.Abs(priceChange) <= divergenceMove || math.Abs(volumeChange) <= weakChange {
		return 0
	}

	switch {
	case priceChange > 0 && volumeChange < -clearChange:
		return -1 - math.Min(1, (math.Abs(volumeChange)-clearChange)/0.15)
	case priceChange < 0 && volumeChange > clearChange:
		return 1 + math.Min(1, (volumeChange-clearChange)/0.15)
	case priceChange > 0.01 && volumeChange > clearChange:
		return 0.5
	case priceChange < -0.01 && volumeChange < -clearChange:
		return -0.5
	}

	return 0
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
