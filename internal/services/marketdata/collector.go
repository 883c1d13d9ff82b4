// Package marketdata fetches OHLCV candles from exchanges and prepares
// them for the analytics core. The core itself never touches the
// network; everything it consumes arrives through this package.
package marketdata

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/avolkhov/marketcore/internal/domain"
	"github.com/avolkhov/marketcore/pkg/retrier"
)

const (
	fetchTimeout  = 30 * time.Second
	fetchRetries  = 3
	fetchInterval = 2 * time.Second
)

// KlineProvider fetches historical candlestick data for a trading pair.
// interval uses exchange-agnostic notation: "1m", "5m", "1h", "4h", "1d".
type KlineProvider interface {
	GetKlines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error)
}

// Collector fetches candles for a fixed pair/interval and exposes the
// latest traded price.
type Collector struct {
	provider KlineProvider
	pair     domain.Pair
	interval string
	limit    int
	retry    *retrier.Retrier
}

// NewCollector creates a market data collector.
func NewCollector(provider KlineProvider, pair domain.Pair, interval string, limit int) *Collector {
	return &Collector{
		provider: provider,
		pair:     pair,
		interval: interval,
		limit:    limit,
		retry:    retrier.New(retrier.WithMaxRetries(fetchRetries), retrier.WithInitialInterval(fetchInterval)),
	}
}

// Candles fetches the configured window of candles, retrying transient
// exchange failures with backoff.
func (c *Collector) Candles(ctx context.Context) ([]domain.MarketCandle, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	candles, err := retrier.DoWithData(c.retry, ctx, func(ctx context.Context) ([]domain.MarketCandle, error) {
		return c.provider.GetKlines(ctx, c.pair, c.interval, c.limit)
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch klines")
	}
	if len(candles) == 0 {
		return nil, errors.New("no kline data returned")
	}

	return candles, nil
}

// CurrentPrice returns the close of the most recent candle.
func (c *Collector) CurrentPrice(candles []domain.MarketCandle) (decimal.Decimal, error) {
	if len(candles) == 0 {
		return decimal.Zero, errors.New("no candles for current price")
	}
	return candles[len(candles)-1].Close, nil
}

// Pair returns the collector's trading pair.
func (c *Collector) Pair() domain.Pair { return c.pair }

// Interval returns the collector's kline interval.
func (c *Collector) Interval() string { return c.interval }

func msToTime(ms int64) time.Time {
	return time.Unix(0, ms*int64(time.Millisecond))
}

func parseIntervalToDuration(interval string) (time.Duration, error) {
	if len(interval) < 2 {
		return 0, errors.Errorf("invalid interval: %q", interval)
	}
	unit := interval[len(interval)-1]
	var n int64
	for _, r := range interval[:len(interval)-1] {
		if r < '0' || r > '9' {
			return 0, errors.Errorf("invalid interval number: %q", interval)
		}
		n = n*10 + int64(r-'0')
	}
	switch unit {
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return 0, errors.Errorf("unsupported interval unit: %c", unit)
}
