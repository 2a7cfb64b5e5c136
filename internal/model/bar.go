// Package model holds the value types shared by every layer of the
// backtester: bars, positions, trades, and the small derived-series
// types recorded alongside a position's risk state.
package model

import "time"

// Bar is one OHLCV sample.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// IndicatorBar is a Bar augmented with named indicator values produced by
// a strategy's PrepIndicators step. Extra carries arbitrary real-valued
// fields (e.g. "sma3", "atr14") keyed by name; Bar is embedded so its
// OHLCV fields are read directly on an IndicatorBar, and the plain Bar
// is available as the Bar field.
type IndicatorBar struct {
	Bar
	Extra map[string]float64
}

// Value returns the named indicator value and whether it was present.
func (b IndicatorBar) Value(name string) (float64, bool) {
	if b.Extra == nil {
		return 0, false
	}
	v, ok := b.Extra[name]
	return v, ok
}
