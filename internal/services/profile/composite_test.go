package profile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avolkhov/marketcore/internal/domain"
)

func TestCompositeBuilder_Build_NotEnoughCandles(t *testing.T) {
	builder := NewCompositeBuilder(4, zap.NewNop())

	cp := builder.Build(uniformCandles(49, 10, 20, 100), decimal.NewFromInt(15), domain.SessionWeekly)
	require.Nil(t, cp)
}

func TestCompositeBuilder_Build_FlatRange(t *testing.T) {
	builder := NewCompositeBuilder(4, zap.NewNop())

	cp := builder.Build(uniformCandles(60, 10, 10, 100), decimal.NewFromInt(10), domain.SessionWeekly)
	require.Nil(t, cp)
}

func TestCompositeBuilder_Build_AccumulationZone(t *testing.T) {
	builder := NewCompositeBuilder(4, zap.NewNop())

	// all volume sits below the current price
	cp := builder.Build(uniformCandles(50, 10, 20, 100), decimal.NewFromInt(19), domain.SessionWeekly)
	require.NotNil(t, cp)

	require.NotNil(t, cp.AccumulationZone)
	require.Nil(t, cp.DistributionZone)
	require.InDelta(t, 1.0, cp.AccumulationZone.VolumeRatio, 1e-9)
	require.InDelta(t, 11.25, cp.AccumulationZone.PriceRange.Low, 1e-9)
	require.InDelta(t, 18.75, cp.AccumulationZone.PriceRange.High, 1e-9)
	require.Equal(t, "strong", cp.AccumulationZone.Strength)

	require.Equal(t, cp.POC, cp.CompositePOC)
	require.Equal(t, cp.VAH, cp.CompositeVAH)
	require.Equal(t, cp.VAL, cp.CompositeVAL)
	require.Equal(t, domain.SessionWeekly, cp.TimeRange)
}

func TestCompositeBuilder_Build_DistributionZone(t *testing.T) {
	builder := NewCompositeBuilder(4, zap.NewNop())

	cp := builder.Build(uniformCandles(50, 10, 20, 100), decimal.NewFromInt(12), domain.SessionWeekly)
	require.NotNil(t, cp)

	require.Nil(t, cp.AccumulationZone)
	require.NotNil(t, cp.DistributionZone)
	require.InDelta(t, 0.75, cp.DistributionZone.VolumeRatio, 1e-9)
}

func TestCompositeBuilder_Build_BinAtCurrentPriceExcluded(t *testing.T) {
	builder := NewCompositeBuilder(4, zap.NewNop())

	// current price lands exactly on the second bin midpoint; that bin
	// counts to neither side
	cp := builder.Build(uniformCandles(50, 10, 20, 100), decimal.NewFromFloat(13.75), domain.SessionWeekly)
	require.NotNil(t, cp)

	require.Nil(t, cp.AccumulationZone)
	require.NotNil(t, cp.DistributionZone)
	require.InDelta(t, 2.0/3.0, cp.DistributionZone.VolumeRatio, 1e-9)
}

func TestCompositeBuilder_Build_WindowSelection(t *testing.T) {
	builder := NewCompositeBuilder(4, zap.NewNop())

	// 32 old candles trade two orders of magnitude higher than the 168
	// recent ones; a weekly composite must only see the recent window
	candles := append(uniformCandles(32, 100, 200, 100), uniformCandles(168, 10, 20, 100)...)

	weekly := builder.Build(candles, decimal.NewFromInt(15), domain.SessionWeekly)
	require.NotNil(t, weekly)
	require.Less(t, weekly.POC, 20.0)
	require.Less(t, weekly.VAH, 20.0)

	// below the monthly window size the full history is profiled
	monthly := builder.Build(candles, decimal.NewFromInt(15), domain.SessionMonthly)
	require.NotNil(t, monthly)
	require.Greater(t, monthly.POC, 20.0)
}

func TestBalanceZones_MergesConsistentBins(t *testing.T) {
	bins := make([]domain.PriceBin, 10)
	for i := range bins {
		bins[i] = domain.PriceBin{Price: 1005 + float64(i)*10, Volume: 100}
	}

	zones := balanceZones(bins, 1050)
	require.Len(t, zones, 1)
	require.InDelta(t, 1005, zones[0].PriceRange.Low, 1e-9)
	require.InDelta(t, 1095, zones[0].PriceRange.High, 1e-9)
	require.InDelta(t, 1000, zones[0].Volume, 1e-9)
	require.InDelta(t, 1050, zones[0].Center, 1e-9)
}

func TestBalanceZones_SplitsOnVolumeSpike(t *testing.T) {
	bins := make([]domain.PriceBin, 10)
	for i := range bins {
		bins[i] = domain.PriceBin{Price: 1005 + float64(i)*10, Volume: 100}
	}
	bins[5].Volume = 300

	zones := balanceZones(bins, 1050)
	require.Len(t, zones, 2)

	require.InDelta(t, 1005, zones[0].PriceRange.Low, 1e-9)
	require.InDelta(t, 1045, zones[0].PriceRange.High, 1e-9)
	require.InDelta(t, 500, zones[0].Volume, 1e-9)

	// the spike bin alone spans nothing and is dropped
	require.InDelta(t, 1065, zones[1].PriceRange.Low, 1e-9)
	require.InDelta(t, 1095, zones[1].PriceRange.High, 1e-9)
	require.InDelta(t, 400, zones[1].Volume, 1e-9)
}

func TestBalanceZones_Empty(t *testing.T) {
	require.Nil(t, balanceZones(nil, 1000))
	require.Nil(t, balanceZones([]domain.PriceBin{{Price: 10, Volume: 1}}, 0))
}
