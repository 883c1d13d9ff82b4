package reward

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/avolkhov/marketcore/internal/domain"
)

const (
	aroonSpreadMin = 30

	adxStrong   = 25
	adxModerate = 20

	rsiFloor   = 30
	rsiMid     = 50
	rsiCeiling = 70

	btcAlignedCorr  = 0.8
	btcModerateCorr = 0.6

	premiumTightPct  = 0.1
	divergenceLowPct = 0.2

	liqSafePct   = 7
	liqAcceptPct = 5
)

// Scorer evaluates coherence checks over a MarketData bag. It never
// fails: missing or out-of-range fields silently skip their check.
type Scorer struct {
	weights Weights
	logger  *zap.Logger
}

// NewScorer creates a scorer with an immutable weight set.
func NewScorer(weights Weights, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{weights: weights, logger: logger}
}

// Score runs every check, sums the satisfied ones and clamps the total
// to the cap as the final step. Checks are order-independent; Flags
// always equals len(Reasons).
func (s *Scorer) Score(asset string, md domain.MarketData) domain.RewardBonus {
	var bonus domain.RewardBonus

	add := func(weight float64, reason string) {
		bonus.Reward += weight
		bonus.Reasons = append(bonus.Reasons, reason)
		bonus.Flags++
	}

	s.checkTrendStack(md, add)
	s.checkVolumeConfirmation(md, add)
	s.checkRegime(md, add)
	s.checkLiquidationDistance(md, add)
	s.checkMomentum(md, add)
	s.checkBTCCorrelation(asset, md, add)
	s.checkPremium(md, add)
	s.checkDivergence(md, add)
	s.checkFuturesCoherence(md, add)

	if bonus.Reward > s.weights.Cap {
		bonus.Reward = s.weights.Cap
	}

	s.logger.Debug("reward scored",
		zap.String("asset", asset),
		zap.Float64("reward", bonus.Reward),
		zap.Int("flags", bonus.Flags))

	return bonus
}

type addFunc func(weight float64, reason string)

// checkTrendStack rewards a labeled trend that agrees with the
// price/EMA20/EMA50 ordering and a wide Aroon spread.
func (s *Scorer) checkTrendStack(md domain.MarketData, add addFunc) {
	ind, ta := md.Indicators, md.TrendAlignment
	if ind == nil || ta == nil {
		return
	}
	if !sane(ind.Price, ind.EMA20, ind.EMA50, ind.AroonUp, ind.AroonDown) {
		return
	}

	spread := ind.AroonUp - ind.AroonDown
	up := ta.Trend == domain.TrendDirectionUp &&
		ind.Price > ind.EMA20 && ind.EMA20 > ind.EMA50 && spread >= aroonSpreadMin
	down := ta.Trend == domain.TrendDirectionDown &&
		ind.Price < ind.EMA20 && ind.EMA20 < ind.EMA50 && -spread >= aroonSpreadMin

	if up || down {
		add(s.weights.TrendEmaAroon,
			fmt.Sprintf("%s confirmed by EMA stack and Aroon spread %.0f", ta.Trend, math.Abs(spread)))
	}
}

// checkVolumeConfirmation rewards externally confirmed volume/delta
// pressure; a strong confirmation aligned with the trend earns the full
// bonus, a moderate one the partial bonus.
func (s *Scorer) checkVolumeConfirmation(md domain.MarketData, add addFunc) {
	vc, ta := md.VolumeConfirmation, md.TrendAlignment
	if vc == nil || !vc.Confirmed {
		return
	}

	if vc.Strength == "strong" && ta != nil && directionMatchesTrend(vc.Direction, ta.Trend) {
		add(s.weights.VolDelta, "strong volume/delta confirmation aligned with trend")
		return
	}
	if vc.Strength == "moderate" {
		add(s.weights.VolDeltaPartial, "moderate volume/delta confirmation")
	}
}

// checkRegime rewards a trending regime: elevated ADX, with expanding
// Bollinger width for the full bonus.
func (s *Scorer) checkRegime(md domain.MarketData, add addFunc) {
	ind := md.Indicators
	if ind == nil || !sane(ind.ADX, ind.BollingerWidth) {
		return
	}

	if ind.ADX >= adxStrong && ind.BollingerWidth > 0 {
		add(s.weights.RegimeStrong,
			fmt.Sprintf("strong trending regime (ADX %.1f)", ind.ADX))
		return
	}
	if ind.ADX >= adxModerate {
		add(s.weights.RegimeModerate,
			fmt.Sprintf("moderate trending regime (ADX %.1f)", ind.ADX))
	}
}

// checkLiquidationDistance rewards entries far from the nearest
// liquidation level.
func (s *Scorer) checkLiquidationDistance(md domain.MarketData, add addFunc) {
	if md.LiquidationDistancePct == nil {
		return
	}
	dist := *md.LiquidationDistancePct
	if !sane(dist) {
		return
	}

	if dist >= liqSafePct {
		add(s.weights.LiqSafe7, fmt.Sprintf("liquidation %.1f%% away", dist))
		return
	}
	if dist >= liqAcceptPct {
		add(s.weights.LiqSafe5, fmt.Sprintf("liquidation %.1f%% away", dist))
	}
}

// checkMomentum rewards RSI in the healthy band agreeing with the MACD
// histogram sign.
func (s *Scorer) checkMomentum(md domain.MarketData, add addFunc) {
	ind := md.Indicators
	if ind == nil || !sane(ind.RSI14, ind.MACDHistogram) {
		return
	}

	bullish := ind.RSI14 > rsiMid && ind.RSI14 < rsiCeiling && ind.MACDHistogram > 0
	bearish := ind.RSI14 < rsiMid && ind.RSI14 > rsiFloor && ind.MACDHistogram < 0

	if bullish || bearish {
		add(s.weights.RsiMomentum,
			fmt.Sprintf("RSI %.1f agrees with MACD histogram", ind.RSI14))
	}
}

// checkBTCCorrelation rewards strong correlation magnitude with BTC.
func (s *Scorer) checkBTCCorrelation(asset string, md domain.MarketData, add addFunc) {
	if md.BTCCorrelation == nil {
		return
	}
	corr := *md.BTCCorrelation
	if !sane(corr) || math.Abs(corr) > 1 {
		return
	}

	if math.Abs(corr) >= btcAlignedCorr {
		add(s.weights.BtcAligned, fmt.Sprintf("%s strongly correlated with BTC (%.2f)", asset, corr))
		return
	}
	if math.Abs(corr) >= btcModerateCorr {
		add(s.weights.BtcModerate, fmt.Sprintf("%s moderately correlated with BTC (%.2f)", asset, corr))
	}
}

// checkPremium rewards a tight futures premium.
func (s *Scorer) checkPremium(md domain.MarketData, add addFunc) {
	f := md.Futures
	if f == nil || f.PremiumPct == nil || !sane(*f.PremiumPct) {
		return
	}
	if math.Abs(*f.PremiumPct) < premiumTightPct {
		add(s.weights.PremiumTight, fmt.Sprintf("futures premium tight (%.3f%%)", *f.PremiumPct))
	}
}

// checkDivergence rewards low spot/perp divergence.
func (s *Scorer) checkDivergence(md domain.MarketData, add addFunc) {
	f := md.Futures
	if f == nil || f.SpotPerpDivergencePct == nil || !sane(*f.SpotPerpDivergencePct) {
		return
	}
	if math.Abs(*f.SpotPerpDivergencePct) < divergenceLowPct {
		add(s.weights.DivergenceLow,
			fmt.Sprintf("spot/perp divergence low (%.3f%%)", *f.SpotPerpDivergencePct))
	}
}

// checkFuturesCoherence rewards funding rate and open interest building
// in the direction of the labeled trend.
func (s *Scorer) checkFuturesCoherence(md domain.MarketData, add addFunc) {
	f, ta := md.Futures, md.TrendAlignment
	if f == nil || ta == nil || f.FundingRate == nil || f.OpenInterestChangePct == nil {
		return
	}
	funding, oiChange := *f.FundingRate, *f.OpenInterestChangePct
	if !sane(funding, oiChange) {
		return
	}

	coherent := oiChange > 0 &&
		((ta.Trend == domain.TrendDirectionUp && funding > 0) ||
			(ta.Trend == domain.TrendDirectionDown && funding < 0))

	if coherent {
		add(s.weights.FuturesCoherent, "funding and open interest coherent with trend")
	}
}

func directionMatchesTrend(direction string, trend domain.TrendDirection) bool {
	return (direction == "buy" && trend == domain.TrendDirectionUp) ||
		(direction == "sell" && trend == domain.TrendDirectionDown)
}

// sane rejects NaN and infinities so a broken upstream ratio degrades
// to a skipped check instead of a poisoned score.
func sane(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
