package profile

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avolkhov/marketcore/internal/domain"
)

const minSessionCandles = 20

// Builder builds session volume profiles. Stateless and safe for
// concurrent use; the clock is the only non-deterministic input.
type Builder struct {
	binCount int
	logger   *zap.Logger
	now      func() time.Time
}

// NewBuilder creates a session profile builder. binCount <= 0 selects
// the default of 50 bins.
func NewBuilder(binCount int, logger *zap.Logger) *Builder {
	if binCount <= 0 {
		binCount = DefaultBinCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{binCount: binCount, logger: logger, now: time.Now}
}

// WithClock replaces the wall clock, keeping the numeric output fully
// deterministic for a given input.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Now reads the builder's clock.
func (b *Builder) Now() time.Time {
	return b.now()
}

// Build computes the volume profile for one window of candles. It
// returns nil when there is not enough data to profile: fewer than 20
// candles, a flat price range, or a non-positive current price. Nil
// means "analysis unavailable", not a defect.
func (b *Builder) Build(candles []domain.MarketCandle, currentPrice decimal.Decimal, session domain.SessionType) *domain.VolumeProfile {
	if len(candles) < minSessionCandles {
		b.logger.Debug("not enough candles for volume profile",
			zap.Int("candles", len(candles)),
			zap.Int("required", minSessionCandles))
		return nil
	}

	price, _ := currentPrice.Float64()
	if price <= 0 {
		return nil
	}

	bins, ok := buildBins(toFloats(candles), b.binCount)
	if !ok {
		b.logger.Debug("flat price range, no profile", zap.String("session", string(session)))
		return nil
	}

	agg := aggregate(bins)

	return &domain.VolumeProfile{
		POC:         agg.poc,
		VAH:         agg.vah,
		VAL:         agg.val,
		HVN:         agg.hvn,
		LVN:         agg.lvn,
		Profile:     agg.profile,
		TotalVolume: agg.totalVolume,
		SessionType: session,
		Timestamp:   b.now(),
	}
}
