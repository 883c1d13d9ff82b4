package marketdata

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	hyperliquid "github.com/sonirico/go-hyperliquid"

	"github.com/avolkhov/marketcore/internal/domain"
)

// HyperliquidKlineProvider implements KlineProvider for Hyperliquid.
// Candle snapshots are read-only; no signing key is required.
type HyperliquidKlineProvider struct {
	info *hyperliquid.Info
}

// NewHyperliquidKlineProvider creates a new Hyperliquid kline provider.
func NewHyperliquidKlineProvider(info *hyperliquid.Info) *HyperliquidKlineProvider {
	return &HyperliquidKlineProvider{info: info}
}

// GetKlines fetches kline data from Hyperliquid. Hyperliquid keys
// markets by base coin; USD quoting is implied.
func (p *HyperliquidKlineProvider) GetKlines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error) {
	if p.info == nil {
		return nil, errors.New("hyperliquid info client is nil")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be > 0")
	}

	dur, err := parseIntervalToDuration(interval)
	if err != nil {
		return nil, err
	}

	endMs := time.Now().UnixMilli()
	// over-fetch two candles worth to absorb boundary rounding
	startMs := endMs - (int64(limit)+2)*dur.Milliseconds()

	coin := strings.ToUpper(pair.From)
	candles, err := p.info.CandlesSnapshot(ctx, coin, interval, startMs, endMs)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch candles from Hyperliquid for %s", coin)
	}
	if len(candles) == 0 {
		return nil, errors.Errorf("no candles from Hyperliquid for %s %s", coin, interval)
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}

	result := make([]domain.MarketCandle, 0, len(candles))
	for i, c := range candles {
		candle, err := candleFromStrings(c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "parse Hyperliquid candle at index %d", i)
		}
		candle.OpenTime = msToTime(c.TimeOpen)
		candle.CloseTime = msToTime(c.TimeClose)
		result = append(result, candle)
	}

	return result, nil
}
