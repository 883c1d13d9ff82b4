package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avolkhov/marketcore/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func uptrendIndicators() *domain.IndicatorSet {
	return &domain.IndicatorSet{
		Price:          110,
		EMA20:          105,
		EMA50:          100,
		RSI14:          50,
		MACDHistogram:  1,
		AroonUp:        80,
		AroonDown:      45,
		BollingerWidth: 0.5,
	}
}

func TestScorer_Score_TrendStack(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	md := domain.MarketData{
		Indicators:     uptrendIndicators(),
		TrendAlignment: &domain.TrendAlignment{Trend: domain.TrendDirectionUp},
	}

	bonus := scorer.Score("SOL", md)
	require.InDelta(t, 40, bonus.Reward, 1e-9)
	require.Len(t, bonus.Reasons, 1)
	require.Equal(t, 1, bonus.Flags)
	require.Contains(t, bonus.Reasons[0], "uptrend")
}

func TestScorer_Score_TrendStack_NarrowAroonSpread(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	ind := uptrendIndicators()
	ind.AroonUp = 60
	ind.AroonDown = 40

	bonus := scorer.Score("SOL", domain.MarketData{
		Indicators:     ind,
		TrendAlignment: &domain.TrendAlignment{Trend: domain.TrendDirectionUp},
	})
	require.Zero(t, bonus.Reward)
	require.Zero(t, bonus.Flags)
}

func TestScorer_Score_CapClampsLast(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	ind := uptrendIndicators()
	ind.ADX = 30

	md := domain.MarketData{
		Indicators:     ind,
		TrendAlignment: &domain.TrendAlignment{Trend: domain.TrendDirectionUp},
		VolumeConfirmation: &domain.VolumeConfirmation{
			Confirmed: true,
			Strength:  "strong",
			Direction: "buy",
		},
	}

	// 40 + 25 + 20 = 85 before the clamp
	bonus := scorer.Score("SOL", md)
	require.InDelta(t, 60, bonus.Reward, 1e-9)
	require.Equal(t, 3, bonus.Flags)
	require.Len(t, bonus.Reasons, 3)

	// a higher cap exposes the raw sum
	raised := DefaultWeights()
	raised.Cap = 100
	bonus = NewScorer(raised, zap.NewNop()).Score("SOL", md)
	require.InDelta(t, 85, bonus.Reward, 1e-9)
}

func TestScorer_Score_EmptyMarketData(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	bonus := scorer.Score("SOL", domain.MarketData{})
	require.Zero(t, bonus.Reward)
	require.Zero(t, bonus.Flags)
	require.Empty(t, bonus.Reasons)
}

func TestScorer_Score_NaNSkipsCheck(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	ind := uptrendIndicators()
	ind.Price = math.NaN()

	bonus := scorer.Score("SOL", domain.MarketData{
		Indicators:             ind,
		TrendAlignment:         &domain.TrendAlignment{Trend: domain.TrendDirectionUp},
		LiquidationDistancePct: ptr(math.Inf(1)),
	})
	require.Zero(t, bonus.Reward)
	require.Zero(t, bonus.Flags)
}

func TestScorer_Score_LiquidationDistance(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"safe", 8, 25},
		{"acceptable", 5.5, 15},
		{"too close", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bonus := scorer.Score("SOL", domain.MarketData{LiquidationDistancePct: ptr(tt.distance)})
			require.InDelta(t, tt.want, bonus.Reward, 1e-9)
		})
	}
}

func TestScorer_Score_ModerateVolumeConfirmation(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	bonus := scorer.Score("SOL", domain.MarketData{
		VolumeConfirmation: &domain.VolumeConfirmation{Confirmed: true, Strength: "moderate"},
	})
	require.InDelta(t, 10, bonus.Reward, 1e-9)
	require.Equal(t, 1, bonus.Flags)
}

func TestScorer_Score_StrongConfirmationAgainstTrend(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	// a strong sell signal during an uptrend earns nothing
	bonus := scorer.Score("SOL", domain.MarketData{
		TrendAlignment: &domain.TrendAlignment{Trend: domain.TrendDirectionUp},
		VolumeConfirmation: &domain.VolumeConfirmation{
			Confirmed: true,
			Strength:  "strong",
			Direction: "sell",
		},
	})
	require.Zero(t, bonus.Reward)
}

func TestScorer_Score_BTCCorrelation(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	bonus := scorer.Score("SOL", domain.MarketData{BTCCorrelation: ptr(0.85)})
	require.InDelta(t, 20, bonus.Reward, 1e-9)

	bonus = scorer.Score("SOL", domain.MarketData{BTCCorrelation: ptr(-0.7)})
	require.InDelta(t, 10, bonus.Reward, 1e-9)

	// out-of-range correlation is a broken input, not a strong one
	bonus = scorer.Score("SOL", domain.MarketData{BTCCorrelation: ptr(1.5)})
	require.Zero(t, bonus.Reward)
}

func TestScorer_Score_FuturesChecks(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	md := domain.MarketData{
		TrendAlignment: &domain.TrendAlignment{Trend: domain.TrendDirectionUp},
		Futures: &domain.FuturesData{
			PremiumPct:            ptr(0.05),
			SpotPerpDivergencePct: ptr(0.1),
			FundingRate:           ptr(0.01),
			OpenInterestChangePct: ptr(2.5),
		},
	}

	// tight premium + low divergence + coherent funding/OI
	bonus := scorer.Score("SOL", md)
	require.InDelta(t, 30, bonus.Reward, 1e-9)
	require.Equal(t, 3, bonus.Flags)
	require.Len(t, bonus.Reasons, 3)
}

func TestScorer_Score_RSIMomentum(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	bullish := &domain.IndicatorSet{RSI14: 60, MACDHistogram: 0.5, Price: 100, EMA20: 100, EMA50: 100}
	bonus := scorer.Score("SOL", domain.MarketData{Indicators: bullish})
	require.InDelta(t, 10, bonus.Reward, 1e-9)

	// RSI above the ceiling is overextended, not momentum
	overbought := &domain.IndicatorSet{RSI14: 75, MACDHistogram: 0.5, Price: 100, EMA20: 100, EMA50: 100}
	bonus = scorer.Score("SOL", domain.MarketData{Indicators: overbought})
	require.Zero(t, bonus.Reward)
}

func TestScorer_Score_FlagsMatchReasons(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), zap.NewNop())

	ind := uptrendIndicators()
	ind.ADX = 22
	ind.RSI14 = 60

	md := domain.MarketData{
		Indicators:             ind,
		TrendAlignment:         &domain.TrendAlignment{Trend: domain.TrendDirectionUp},
		BTCCorrelation:         ptr(0.9),
		LiquidationDistancePct: ptr(10.0),
	}

	bonus := scorer.Score("SOL", md)
	require.Equal(t, len(bonus.Reasons), bonus.Flags)
	require.Greater(t, bonus.Flags, 2)
}
