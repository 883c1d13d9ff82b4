// Package internal wires market data collection, the analytics core and
// the analysis journal into one runnable unit per trading pair.
package internal

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/avolkhov/marketcore/internal/domain"
	"github.com/avolkhov/marketcore/internal/services/indicators"
	"github.com/avolkhov/marketcore/internal/services/marketdata"
	"github.com/avolkhov/marketcore/internal/services/metrics"
	"github.com/avolkhov/marketcore/internal/services/profile"
	"github.com/avolkhov/marketcore/internal/services/reward"
	"github.com/avolkhov/marketcore/internal/storage/analysis"
)

// Analyzer runs one full analytics pass for a pair: session and
// composite volume profiles, enhanced metrics, an indicator snapshot
// and the reward score, journaling the result.
type Analyzer struct {
	collector *marketdata.Collector
	session   *profile.Builder
	composite *profile.CompositeBuilder
	metrics   *metrics.Calculator
	scorer    *reward.Scorer
	journal   *analysis.WALStore
	timeRange domain.SessionType
	logger    *zap.Logger
}

// NewAnalyzer creates an analyzer. journal may be nil to skip
// persistence.
func NewAnalyzer(
	collector *marketdata.Collector,
	binCount int,
	timeRange domain.SessionType,
	weights reward.Weights,
	journal *analysis.WALStore,
	logger *zap.Logger,
) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		collector: collector,
		session:   profile.NewBuilder(binCount, logger),
		composite: profile.NewCompositeBuilder(binCount, logger),
		metrics:   metrics.NewCalculator(logger),
		scorer:    reward.NewScorer(weights, logger),
		journal:   journal,
		timeRange: timeRange,
		logger:    logger,
	}
}

// Run performs a single analytics pass. Unavailable analyses (too few
// candles, flat range) come back as nil fields, not errors.
func (a *Analyzer) Run(ctx context.Context) (*domain.AnalysisEvent, error) {
	pair := a.collector.Pair()

	candles, err := a.collector.Candles(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "collect candles for %s", pair.String())
	}

	currentPrice, err := a.collector.CurrentPrice(candles)
	if err != nil {
		return nil, errors.Wrapf(err, "current price for %s", pair.String())
	}

	marketData, err := indicators.BuildMarketData(candles)
	if err != nil {
		// too short a history degrades the reward inputs, nothing more
		a.logger.Warn("indicator snapshot unavailable",
			zap.String("pair", pair.String()), zap.Error(err))
		marketData = domain.MarketData{}
	}

	session := a.session.Build(candles, currentPrice, domain.SessionDaily)
	composite := a.composite.Build(candles, currentPrice, a.timeRange)
	enhanced := a.metrics.Compute(candles)
	bonus := a.scorer.Score(pair.String(), marketData)

	price, _ := currentPrice.Float64()
	event := &domain.AnalysisEvent{
		ID:           uuid.NewString(),
		Pair:         pair.String(),
		Interval:     a.collector.Interval(),
		CurrentPrice: price,
		Session:      session,
		Composite:    composite,
		Metrics:      enhanced,
		Reward:       &bonus,
		Timestamp:    a.session.Now(),
	}

	if a.journal != nil {
		if err := a.journal.Save(*event); err != nil {
			a.logger.Error("failed to journal analysis event",
				zap.String("pair", pair.String()), zap.Error(err))
		}
	}

	a.logSummary(event)

	return event, nil
}

func (a *Analyzer) logSummary(event *domain.AnalysisEvent) {
	fields := []zap.Field{
		zap.String("pair", event.Pair),
		zap.String("interval", event.Interval),
		zap.Float64("price", event.CurrentPrice),
		zap.Float64("reward", event.Reward.Reward),
		zap.Int("flags", event.Reward.Flags),
	}
	if event.Session != nil {
		fields = append(fields,
			zap.Float64("poc", event.Session.POC),
			zap.Float64("vah", event.Session.VAH),
			zap.Float64("val", event.Session.VAL))
	}
	if event.Metrics != nil {
		fields = append(fields,
			zap.String("volume_trend", string(event.Metrics.VolumeTrend)),
			zap.String("volatility", string(event.Metrics.VolatilityPattern)))
	}
	a.logger.Info("analysis complete", fields...)
}
