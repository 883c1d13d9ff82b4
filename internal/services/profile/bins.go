// Package profile builds volume profiles: price/volume histograms with
// point-of-control, value-area and volume-node markers, plus composite
// multi-window profiles with zone classification.
package profile

import (
	"github.com/avolkhov/marketcore/internal/domain"
)

// DefaultBinCount is the number of price bins a profile is built over.
const DefaultBinCount = 50

// ohlcv is the float view of a candle used for histogram math. Exchange
// data stays decimal at the boundary; analytics run on float64.
type ohlcv struct {
	open, high, low, close, volume float64
}

func toFloats(candles []domain.MarketCandle) []ohlcv {
	out := make([]ohlcv, len(candles))
	for i, c := range candles {
		open, _ := c.Open.Float64()
		high, _ := c.High.Float64()
		low, _ := c.Low.Float64()
		closeP, _ := c.Close.Float64()
		volume, _ := c.Volume.Float64()
		out[i] = ohlcv{open: open, high: high, low: low, close: closeP, volume: volume}
	}
	return out
}

// buildBins partitions [min(low), max(high)] into binCount fixed-width
// bins and spreads each candle's volume over every bin whose midpoint
// falls inside the candle's high/low range.
//
// The spread is proportional, volume * binWidth/(high-low) per bin, and
// deliberately not volume-conserving: overlapping bins each receive a
// full share. Downstream thresholds are tuned against this scale.
func buildBins(candles []ohlcv, binCount int) ([]domain.PriceBin, bool) {
	if len(candles) == 0 || binCount <= 0 {
		return nil, false
	}

	minPrice := candles[0].low
	maxPrice := candles[0].high
	for _, c := range candles {
		if c.low < minPrice {
			minPrice = c.low
		}
		if c.high > maxPrice {
			maxPrice = c.high
		}
	}

	priceRange := maxPrice - minPrice
	if priceRange <= 0 {
		return nil, false
	}

	binWidth := priceRange / float64(binCount)
	bins := make([]domain.PriceBin, binCount)
	for i := range bins {
		bins[i].Price = minPrice + float64(i)*binWidth + binWidth/2
	}

	for _, c := range candles {
		if c.high <= c.low || c.volume <= 0 {
			continue
		}
		share := c.volume * (binWidth / (c.high - c.low))
		for i := range bins {
			if bins[i].Price >= c.low && bins[i].Price <= c.high {
				bins[i].Volume += share
			}
		}
	}

	return bins, true
}
