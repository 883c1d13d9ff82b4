package marketdata

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/avolkhov/marketcore/internal/domain"
)

// BinanceKlineProvider implements KlineProvider for Binance.
type BinanceKlineProvider struct {
	client *binance.Client
}

// NewBinanceKlineProvider creates a new Binance kline provider. Kline
// endpoints are public; empty credentials are fine.
func NewBinanceKlineProvider(client *binance.Client) *BinanceKlineProvider {
	return &BinanceKlineProvider{client: client}
}

// GetKlines fetches kline data from Binance.
func (p *BinanceKlineProvider) GetKlines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error) {
	klines, err := p.client.NewKlinesService().
		Symbol(pair.Symbol()).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch klines from Binance for %s", pair.String())
	}

	result := make([]domain.MarketCandle, len(klines))
	for i, k := range klines {
		candle, err := candleFromStrings(k.Open, k.High, k.Low, k.Close, k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "parse Binance kline at index %d", i)
		}
		candle.OpenTime = msToTime(k.OpenTime)
		candle.CloseTime = msToTime(k.CloseTime)
		result[i] = candle
	}

	return result, nil
}

func candleFromStrings(open, high, low, closeP, volume string) (domain.MarketCandle, error) {
	var candle domain.MarketCandle
	var err error

	if candle.Open, err = decimal.NewFromString(open); err != nil {
		return candle, errors.Wrap(err, "open price")
	}
	if candle.High, err = decimal.NewFromString(high); err != nil {
		return candle, errors.Wrap(err, "high price")
	}
	if candle.Low, err = decimal.NewFromString(low); err != nil {
		return candle, errors.Wrap(err, "low price")
	}
	if candle.Close, err = decimal.NewFromString(closeP); err != nil {
		return candle, errors.Wrap(err, "close price")
	}
	if candle.Volume, err = decimal.NewFromString(volume); err != nil {
		return candle, errors.Wrap(err, "volume")
	}

	return candle, nil
}
