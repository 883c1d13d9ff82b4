// Package indicators computes the technical indicators the reward
// scorer consumes. It uses the cinar/indicator library for EMA, MACD,
// RSI, ATR, Aroon and Bollinger bands over decimal price data.
package indicators

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"
	"github.com/cinar/indicator/v2/volatility"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/avolkhov/marketcore/internal/domain"
)

// minSnapshotCandles is set by the slowest indicator (EMA50).
const minSnapshotCandles = 50

// CalculateEMA calculates the Exponential Moving Average for the given period.
func CalculateEMA(closes []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if len(closes) < period {
		return nil, errors.Errorf("not enough data points: need %d, got %d", period, len(closes))
	}

	ema := trend.NewEmaWithPeriod[float64](period)
	out := helper.ChanToSlice(ema.Compute(helper.SliceToChan(decimalsToFloat64(closes))))

	return float64ToDecimals(out), nil
}

// CalculateMACD calculates the MACD line and its signal line.
func CalculateMACD(closes []decimal.Decimal) (macd, signal []decimal.Decimal, err error) {
	if len(closes) < 26 {
		return nil, nil, errors.Errorf("not enough data points for MACD: need at least 26, got %d", len(closes))
	}

	m := trend.NewMacd[float64]()
	macdChan, signalChan := m.Compute(helper.SliceToChan(decimalsToFloat64(closes)))

	// both channels must be drained concurrently or Compute blocks
	var signalFloat []float64
	done := make(chan struct{})
	go func() {
		signalFloat = helper.ChanToSlice(signalChan)
		close(done)
	}()
	macdFloat := helper.ChanToSlice(macdChan)
	<-done

	return float64ToDecimals(macdFloat), float64ToDecimals(signalFloat), nil
}

// CalculateRSI calculates the Relative Strength Index for the given period.
func CalculateRSI(closes []decimal.Decimal, period int) ([]decimal.Decimal, error) {
	if len(closes) < period+1 {
		return nil, errors.Errorf("not enough data points for RSI: need %d, got %d", period+1, len(closes))
	}

	rsi := momentum.NewRsiWithPeriod[float64](period)
	out := helper.ChanToSlice(rsi.Compute(helper.SliceToChan(decimalsToFloat64(closes))))

	return float64ToDecimals(out), nil
}

// CalculateATR calculates the Average True Range for the given period.
func CalculateATR(candles []domain.MarketCandle, period int) ([]decimal.Decimal, error) {
	if len(candles) < period+1 {
		return nil, errors.Errorf("not enough data points for ATR: need %d, got %d", period+1, len(candles))
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		highs[i], _ = c.High.Float64()
		lows[i], _ = c.Low.Float64()
		closes[i], _ = c.Close.Float64()
	}

	atr := volatility.NewAtrWithPeriod[float64](period)
	out := helper.ChanToSlice(atr.Compute(
		helper.SliceToChan(highs),
		helper.SliceToChan(lows),
		helper.SliceToChan(closes),
	))

	return float64ToDecimals(out), nil
}

// CalculateAroon calculates the Aroon up/down lines from highs and lows.
func CalculateAroon(candles []domain.MarketCandle) (up, down []decimal.Decimal, err error) {
	aroon := trend.NewAroon[float64]()
	if len(candles) < aroon.Period+1 {
		return nil, nil, errors.Errorf("not enough data points for Aroon: need %d, got %d", aroon.Period+1, len(candles))
	}

	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		highs[i], _ = c.High.Float64()
		lows[i], _ = c.Low.Float64()
	}

	upChan, downChan := aroon.Compute(helper.SliceToChan(highs), helper.SliceToChan(lows))

	var downFloat []float64
	done := make(chan struct{})
	go func() {
		downFloat = helper.ChanToSlice(downChan)
		close(done)
	}()
	upFloat := helper.ChanToSlice(upChan)
	<-done

	return float64ToDecimals(upFloat), float64ToDecimals(downFloat), nil
}

// bollingerWidth returns the latest relative band width (upper-lower)/middle.
func bollingerWidth(closes []decimal.Decimal) (float64, error) {
	bb := volatility.NewBollingerBands[float64]()
	if len(closes) < bb.Period {
		return 0, errors.Errorf("not enough data points for Bollinger bands: need %d, got %d", bb.Period, len(closes))
	}

	upperChan, middleChan, lowerChan := bb.Compute(helper.SliceToChan(decimalsToFloat64(closes)))

	var middle, lower []float64
	done := make(chan struct{})
	go func() {
		middle = helper.ChanToSlice(middleChan)
		close(done)
	}()
	lowerDone := make(chan struct{})
	go func() {
		lower = helper.ChanToSlice(lowerChan)
		close(lowerDone)
	}()
	upper := helper.ChanToSlice(upperChan)
	<-done
	<-lowerDone

	n := len(upper)
	if len(middle) < n {
		n = len(middle)
	}
	if len(lower) < n {
		n = len(lower)
	}
	if n == 0 || middle[len(middle)-1] == 0 {
		return 0, errors.New("empty Bollinger band output")
	}

	width := (upper[len(upper)-1] - lower[len(lower)-1]) / middle[len(middle)-1]
	return math.Abs(width), nil
}

// BuildMarketData assembles the reward scorer's input bag from raw
// candles: the latest indicator values plus the labeled trend. Fields
// the core cannot derive locally (ADX, futures context, correlations)
// stay unset and their checks are skipped downstream.
func BuildMarketData(candles []domain.MarketCandle) (domain.MarketData, error) {
	if len(candles) < minSnapshotCandles {
		return domain.MarketData{}, errors.Errorf("not enough candles for indicator snapshot: need %d, got %d", minSnapshotCandles, len(candles))
	}

	closes := make([]decimal.Decimal, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	ema20, err := CalculateEMA(closes, 20)
	if err != nil {
		return domain.MarketData{}, errors.Wrap(err, "calculate EMA20")
	}
	ema50, err := CalculateEMA(closes, 50)
	if err != nil {
		return domain.MarketData{}, errors.Wrap(err, "calculate EMA50")
	}
	rsi14, err := CalculateRSI(closes, 14)
	if err != nil {
		return domain.MarketData{}, errors.Wrap(err, "calculate RSI14")
	}
	macd, signal, err := CalculateMACD(closes)
	if err != nil {
		return domain.MarketData{}, errors.Wrap(err, "calculate MACD")
	}
	aroonUp, aroonDown, err := CalculateAroon(candles)
	if err != nil {
		return domain.MarketData{}, errors.Wrap(err, "calculate Aroon")
	}
	bbWidth, err := bollingerWidth(closes)
	if err != nil {
		return domain.MarketData{}, errors.Wrap(err, "calculate Bollinger width")
	}

	price, _ := candles[len(candles)-1].Close.Float64()
	histLen := len(macd)
	if len(signal) < histLen {
		histLen = len(signal)
	}
	histogram := 0.0
	if histLen > 0 {
		m, _ := macd[len(macd)-1].Float64()
		s, _ := signal[len(signal)-1].Float64()
		histogram = m - s
	}

	ind := &domain.IndicatorSet{
		Price:          price,
		EMA20:          last(ema20),
		EMA50:          last(ema50),
		RSI14:          last(rsi14),
		MACDHistogram:  histogram,
		AroonUp:        last(aroonUp),
		AroonDown:      last(aroonDown),
		BollingerWidth: bbWidth,
	}

	return domain.MarketData{
		Indicators:     ind,
		TrendAlignment: &domain.TrendAlignment{Trend: domain.DetermineTrendDirection(ind.Price, ind.EMA20, ind.EMA50)},
	}, nil
}

func last(values []decimal.Decimal) float64 {
	if len(values) == 0 {
		return 0
	}
	v, _ := values[len(values)-1].Float64()
	return v
}

// decimalsToFloat64 converts a slice of decimal.Decimal to []float64.
func decimalsToFloat64(decimals []decimal.Decimal) []float64 {
	result := make([]float64, len(decimals))
	for i, d := range decimals {
		result[i], _ = d.Float64()
	}
	return result
}

// float64ToDecimals converts a slice of float64 to []decimal.Decimal.
func float64ToDecimals(floats []float64) []decimal.Decimal {
	result := make([]decimal.Decimal, len(floats))
	for i, f := range floats {
		result[i] = decimal.NewFromFloat(f)
	}
	return result
}
