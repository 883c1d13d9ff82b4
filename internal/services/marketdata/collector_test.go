package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avolkhov/marketcore/internal/domain"
	"github.com/avolkhov/marketcore/pkg/retrier"
)

type fakeProvider struct {
	candles []domain.MarketCandle
	err     error

	gotPair     domain.Pair
	gotInterval string
	gotLimit    int
}

func (f *fakeProvider) GetKlines(_ context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error) {
	f.gotPair = pair
	f.gotInterval = interval
	f.gotLimit = limit
	return f.candles, f.err
}

func testCandles(closes ...float64) []domain.MarketCandle {
	candles := make([]domain.MarketCandle, len(closes))
	for i, c := range closes {
		candles[i] = domain.MarketCandle{Close: decimal.NewFromFloat(c)}
	}
	return candles
}

func TestCollector_Candles(t *testing.T) {
	provider := &fakeProvider{candles: testCandles(100, 101, 102)}
	pair := domain.Pair{From: "BTC", To: "USDT"}

	collector := NewCollector(provider, pair, "1h", 200)

	candles, err := collector.Candles(context.Background())
	require.NoError(t, err)
	require.Len(t, candles, 3)
	require.Equal(t, pair, provider.gotPair)
	require.Equal(t, "1h", provider.gotInterval)
	require.Equal(t, 200, provider.gotLimit)
}

func TestCollector_Candles_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("exchange down")}
	collector := NewCollector(provider, domain.Pair{From: "BTC", To: "USDT"}, "1h", 200)
	// no backoff sleeps in tests
	collector.retry = retrier.New(retrier.WithMaxRetries(0))

	_, err := collector.Candles(context.Background())
	require.Error(t, err)
}

func TestCollector_Candles_EmptyResponse(t *testing.T) {
	provider := &fakeProvider{}
	collector := NewCollector(provider, domain.Pair{From: "BTC", To: "USDT"}, "1h", 200)

	_, err := collector.Candles(context.Background())
	require.Error(t, err)
}

func TestCollector_CurrentPrice(t *testing.T) {
	collector := NewCollector(&fakeProvider{}, domain.Pair{From: "BTC", To: "USDT"}, "1h", 200)

	price, err := collector.CurrentPrice(testCandles(100, 101, 102))
	require.NoError(t, err)
	require.True(t, price.Equal(decimal.NewFromInt(102)))

	_, err = collector.CurrentPrice(nil)
	require.Error(t, err)
}

func TestParseIntervalToDuration(t *testing.T) {
	tests := []struct {
		interval string
		want     time.Duration
		wantErr  bool
	}{
		{interval: "1m", want: time.Minute},
		{interval: "15m", want: 15 * time.Minute},
		{interval: "4h", want: 4 * time.Hour},
		{interval: "1d", want: 24 * time.Hour},
		{interval: "h", wantErr: true},
		{interval: "1x", wantErr: true},
		{interval: "90", wantErr: true},
		{interval: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.interval, func(t *testing.T) {
			got, err := parseIntervalToDuration(tt.interval)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMsToTime(t *testing.T) {
	ts := msToTime(1756000000000)
	require.Equal(t, int64(1756000000), ts.Unix())
}
