// Package strategy defines the rule-callback contract a caller supplies
// to internal/backtest: entry/exit/stop/profit-target rules, each
// modeled as its own function type rather than one dynamically-dispatched
// interface, so the engine's hot loop never pays for boxing a trait
// object it isn't using.
package strategy

import (
	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/series"
)

// Parameters is the opaque parameter bucket threaded through every rule
// callback. The optimizer clones and overlays it per candidate.
type Parameters map[string]float64

// Clone returns an independent copy.
func (p Parameters) Clone() Parameters {
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// EnterOptions is the optional payload passed to EnterFunc.
type EnterOptions struct {
	// Direction defaults to model.Long when nil.
	Direction *model.TradeDirection
	// EntryPrice gates the fill: if set, the engine waits for a bar whose
	// high/low trades through this level before filling at that bar's
	// open (conditional entry, spec.md §4.C state Enter).
	EntryPrice *float64
}

// EnterFunc is the one-shot intent signal an EntryRule may invoke. It
// does not itself open a position; it only records the caller's intent
// for the engine to act on starting the next bar.
type EnterFunc func(opts *EnterOptions)

// ExitFunc is the one-shot intent signal an ExitRule may invoke.
type ExitFunc func()

// EntryContext is what an EntryRule sees. It runs only while no position
// is open.
type EntryContext struct {
	Bar        model.IndicatorBar
	Lookback   []model.IndicatorBar
	Parameters Parameters
}

// PositionContext is what ExitRule and the three distance rules
// (StopLoss, TrailingStopLoss, ProfitTarget) see. It runs only while a
// position is open.
type PositionContext struct {
	Bar        model.IndicatorBar
	Lookback   []model.IndicatorBar
	EntryPrice float64
	Position   *model.Position
	Parameters Parameters
}

// EntryRule is invoked once per bar while no position is open.
type EntryRule func(enter EnterFunc, ctx EntryContext)

// ExitRule is invoked once per bar while a position is open, after risk
// management has been evaluated for that bar.
type ExitRule func(exit ExitFunc, ctx PositionContext)

// DistanceRule computes a non-negative price distance (not an absolute
// price); the engine converts it to a price using the position's
// direction. Used for StopLoss, TrailingStopLoss, and ProfitTarget.
type DistanceRule func(ctx PositionContext) float64

// PrepIndicatorsFunc is a pure transform producing one indicator bar per
// input bar, preserving order and index.
type PrepIndicatorsFunc func(params Parameters, input series.Series[model.Bar]) series.Series[model.IndicatorBar]

// Strategy is the full rule-callback contract for one backtest run.
type Strategy struct {
	Parameters Parameters

	// LookbackPeriod is the minimum number of bars that must precede
	// rule evaluation. Defaults to 1 when zero.
	LookbackPeriod int

	PrepIndicators PrepIndicatorsFunc

	EntryRule EntryRule
	ExitRule  ExitRule

	StopLoss         DistanceRule
	TrailingStopLoss DistanceRule
	ProfitTarget     DistanceRule
}

// Clone returns a copy of s with an independently-clonable Parameters
// map; rule function values are shared (they are pure with respect to
// engine state) but the parameter bucket they close over is not — each
// optimizer candidate gets its own.
func (s Strategy) Clone() Strategy {
	clone := s
	clone.Parameters = s.Parameters.Clone()
	return clone
}

// EffectiveLookback returns LookbackPeriod, defaulting to 1.
func (s Strategy) EffectiveLookback() int {
	if s.LookbackPeriod < 1 {
		return 1
	}
	return s.LookbackPeriod
}
