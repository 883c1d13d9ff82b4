package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendDirection qualitative direction of price action.
type TrendDirection string

const (
	TrendDirectionUp       TrendDirection = "uptrend"
	TrendDirectionDown     TrendDirection = "downtrend"
	TrendDirectionSideways TrendDirection = "sideways"
)

// MarketCandle single OHLCV candlestick. Candles are caller-owned and
// expected in ascending time order.
type MarketCandle struct {
	OpenTime  time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	CloseTime time.Time
}

// DetermineTrendDirection classifies trend from the price/EMA stack.
func DetermineTrendDirection(price, ema20, ema50 float64) TrendDirection {
	if price > ema20 && ema20 > ema50 {
		return TrendDirectionUp
	}
	if price < ema20 && ema20 < ema50 {
		return TrendDirectionDown
	}
	return TrendDirectionSideways
}
