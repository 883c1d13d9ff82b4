package profile

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avolkhov/marketcore/internal/domain"
)

const (
	minCompositeCandles = 50
	weeklyWindow        = 168
	monthlyWindow       = 720

	zoneVolumeShare = 0.55

	balanceGapPct       = 0.02
	balanceVolTolerance = 0.30
	balanceMinSpanPct   = 0.01
)

// CompositeBuilder builds volume profiles over an extended window and
// layers accumulation/distribution and balance-zone detection on top.
type CompositeBuilder struct {
	session *Builder
	logger  *zap.Logger
}

// NewCompositeBuilder creates a composite profile builder sharing the
// session builder's binning configuration.
func NewCompositeBuilder(binCount int, logger *zap.Logger) *CompositeBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompositeBuilder{session: NewBuilder(binCount, logger), logger: logger}
}

// Session exposes the underlying session builder (shared clock).
func (c *CompositeBuilder) Session() *Builder {
	return c.session
}

// Build computes a composite profile over a trailing sub-window: the
// last 168 candles for weekly, 720 for monthly (when available),
// otherwise the full slice. Returns nil below 50 candles or when the
// session profile itself is unavailable.
func (c *CompositeBuilder) Build(candles []domain.MarketCandle, currentPrice decimal.Decimal, timeRange domain.SessionType) *domain.CompositeVolumeProfile {
	if len(candles) < minCompositeCandles {
		return nil
	}

	window := candles
	switch timeRange {
	case domain.SessionWeekly:
		if len(candles) >= weeklyWindow {
			window = candles[len(candles)-weeklyWindow:]
		}
	case domain.SessionMonthly:
		if len(candles) >= monthlyWindow {
			window = candles[len(candles)-monthlyWindow:]
		}
	}

	session := c.session.Build(window, currentPrice, timeRange)
	if session == nil {
		return nil
	}

	price, _ := currentPrice.Float64()
	accumulation, distribution := volumeZones(session.Profile, price)

	return &domain.CompositeVolumeProfile{
		VolumeProfile:    *session,
		TimeRange:        timeRange,
		AccumulationZone: accumulation,
		DistributionZone: distribution,
		BalanceZones:     balanceZones(session.Profile, price),
		CompositePOC:     session.POC,
		CompositeVAH:     session.VAH,
		CompositeVAL:     session.VAL,
	}
}

// volumeZones classifies the profile halves around the current price.
// Since the two ratios sum to 1, at most one zone clears the 0.55 bar.
func volumeZones(profile []domain.PriceBin, currentPrice float64) (accumulation, distribution *domain.VolumeZone) {
	var lower, upper []domain.PriceBin
	var lowerVolume, upperVolume float64

	for _, b := range profile {
		switch {
		case b.Price < currentPrice:
			lower = append(lower, b)
			lowerVolume += b.Volume
		case b.Price > currentPrice:
			upper = append(upper, b)
			upperVolume += b.Volume
		}
	}

	total := lowerVolume + upperVolume
	if total <= 0 {
		return nil, nil
	}

	if ratio := lowerVolume / total; ratio > zoneVolumeShare && len(lower) > 0 {
		accumulation = &domain.VolumeZone{
			PriceRange:  binSpan(lower),
			VolumeRatio: ratio,
			Strength:    "strong",
		}
	}
	if ratio := upperVolume / total; ratio > zoneVolumeShare && len(upper) > 0 {
		distribution = &domain.VolumeZone{
			PriceRange:  binSpan(upper),
			VolumeRatio: ratio,
			Strength:    "strong",
		}
	}

	return accumulation, distribution
}

func binSpan(bins []domain.PriceBin) domain.PriceRange {
	span := domain.PriceRange{Low: bins[0].Price, High: bins[0].Price}
	for _, b := range bins[1:] {
		if b.Price < span.Low {
			span.Low = b.Price
		}
		if b.Price > span.High {
			span.High = b.Price
		}
	}
	return span
}

// balanceZones greedily merges price-adjacent bins with consistent
// volume into zones. A zone extends while the gap to the next bin is
// under 2% of current price and the bin's volume stays within 30% of
// the zone's running average; closed zones are kept when their span
// exceeds 1% of current price.
func balanceZones(profile []domain.PriceBin, currentPrice float64) []domain.BalanceZone {
	if len(profile) == 0 || currentPrice <= 0 {
		return nil
	}

	maxGap := balanceGapPct * currentPrice
	minSpan := balanceMinSpanPct * currentPrice

	var zones []domain.BalanceZone

	start := profile[0]
	last := profile[0]
	volume := profile[0].Volume
	count := 1

	flush := func() {
		if last.Price-start.Price > minSpan {
			zones = append(zones, domain.BalanceZone{
				PriceRange: domain.PriceRange{Low: start.Price, High: last.Price},
				Volume:     volume,
				Center:     (start.Price + last.Price) / 2,
			})
		}
	}

	for _, b := range profile[1:] {
		avg := volume / float64(count)
		volChange := 0.0
		if avg > 0 {
			volChange = b.Volume - avg
			if volChange < 0 {
				volChange = -volChange
			}
			volChange /= avg
		}

		if b.Price-last.Price < maxGap && volChange < balanceVolTolerance {
			last = b
			volume += b.Volume
			count++
			continue
		}

		flush()
		start, last = b, b
		volume = b.Volume
		count = 1
	}
	flush()

	return zones
}
