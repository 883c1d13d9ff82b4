// Package domain defines the data structures shared by the analytics
// core: candles, volume profiles, metrics and reward scoring inputs.
package domain

import "fmt"

// Pair cryptocurrency trading pair.
type Pair struct {
	// From base currency symbol.
	From string
	// To quote currency symbol.
	To string
}

// String returns the underscore-separated representation, "BTC_USDT".
func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Symbol returns the concatenated exchange symbol, "BTCUSDT".
func (p Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.From, p.To)
}
