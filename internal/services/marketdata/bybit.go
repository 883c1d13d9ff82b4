package marketdata

import (
	"context"
	"strconv"
	"time"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"

	"github.com/avolkhov/marketcore/internal/domain"
)

var bybitIntervals = map[string]bybit.Interval{
	"1m":  bybit.Interval1,
	"3m":  bybit.Interval3,
	"5m":  bybit.Interval5,
	"15m": bybit.Interval15,
	"30m": bybit.Interval30,
	"1h":  bybit.Interval60,
	"2h":  bybit.Interval120,
	"4h":  bybit.Interval240,
	"6h":  bybit.Interval360,
	"12h": bybit.Interval720,
	"1d":  bybit.IntervalD,
}

// BybitKlineProvider implements KlineProvider for Bybit (V5 market API).
type BybitKlineProvider struct {
	client *bybit.Client
}

// NewBybitKlineProvider creates a new Bybit kline provider.
func NewBybitKlineProvider(client *bybit.Client) *BybitKlineProvider {
	return &BybitKlineProvider{client: client}
}

// GetKlines fetches kline data from Bybit. Bybit returns candles newest
// first; the result is reversed into ascending time order.
func (p *BybitKlineProvider) GetKlines(_ context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error) {
	bybitInterval, ok := bybitIntervals[interval]
	if !ok {
		return nil, errors.Errorf("unsupported Bybit interval: %q", interval)
	}

	dur, err := parseIntervalToDuration(interval)
	if err != nil {
		return nil, err
	}

	end := time.Now().UnixMilli()
	start := end - int64(limit)*dur.Milliseconds()

	resp, err := p.client.V5().Market().GetKline(bybit.V5GetKlineParam{
		Category: bybit.CategoryV5Spot,
		Symbol:   bybit.SymbolV5(pair.Symbol()),
		Interval: bybitInterval,
		Start:    &start,
		End:      &end,
		Limit:    &limit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetch klines from Bybit for %s", pair.String())
	}
	if len(resp.Result.List) == 0 {
		return nil, errors.Errorf("no klines from Bybit for %s", pair.String())
	}

	list := resp.Result.List
	result := make([]domain.MarketCandle, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		k := list[i]
		candle, err := candleFromStrings(k.Open, k.High, k.Low, k.Close, k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "parse Bybit kline at index %d", i)
		}
		startMs, err := strconv.ParseInt(k.StartTime, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse Bybit kline start time %q", k.StartTime)
		}
		candle.OpenTime = msToTime(startMs)
		candle.CloseTime = msToTime(startMs + dur.Milliseconds())
		result = append(result, candle)
	}

	return result, nil
}
