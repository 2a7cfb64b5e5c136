// Package backtest implements the single-pass, single-position state
// machine described in spec.md §4.C: it folds a strategy's rule
// callbacks over an ordered bar series and emits a list of finalized
// trades with full exit-reason attribution.
package backtest

import (
	"fmt"
	"time"

	"github.com/contactkeval/backtestlab/internal/lookback"
	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/series"
	"github.com/contactkeval/backtestlab/internal/strategy"
)

// Options controls optional recording of risk/stop time series on the
// emitted trades.
type Options struct {
	RecordStopPrice bool
	RecordRisk      bool
}

type engineState int

const (
	stateNone engineState = iota
	stateEnter
	stateOpen
	stateExit
)

// Run executes the backtest and returns the completed trades in the
// order they closed.
func Run(strat strategy.Strategy, input series.Series[model.Bar], opts Options) ([]model.Trade, error) {
	if input.None() {
		return nil, ErrEmptyInput
	}
	lookbackPeriod := strat.EffectiveLookback()
	if input.Count() < lookbackPeriod {
		return nil, ErrInsufficientBars
	}

	indicatorBars, err := prepIndicators(strat, input)
	if err != nil {
		return nil, err
	}

	eng := &runner{
		strat: strat,
		opts:  opts,
		lb:    lookback.New(lookbackPeriod),
	}
	return eng.run(indicatorBars)
}

func prepIndicators(strat strategy.Strategy, input series.Series[model.Bar]) ([]model.IndicatorBar, error) {
	if strat.PrepIndicators == nil {
		raw := input.Bake()
		out := make([]model.IndicatorBar, len(raw))
		for i, b := range raw {
			out[i] = model.IndicatorBar{Bar: b}
		}
		return out, nil
	}
	out := strat.PrepIndicators(strat.Parameters, input)
	if out == nil {
		return nil, fmt.Errorf("backtest: prepIndicators returned a nil series")
	}
	return out.Bake(), nil
}

type runner struct {
	strat strategy.Strategy
	opts  Options
	lb    *lookback.Buffer

	state             engineState
	pendingDirection  model.TradeDirection
	pendingEntryPrice *float64
	pos               *model.Position

	trades []model.Trade

	// callbackErr records an invariant violation raised by a rule
	// callback's Enter/Exit closure; checked immediately after each
	// rule invocation.
	callbackErr error
}

func (r *runner) run(bars []model.IndicatorBar) ([]model.Trade, error) {
	for _, bar := range bars {
		if r.lb.Full() {
			if err := r.processBar(bar); err != nil {
				return nil, err
			}
		}
		r.lb.Push(bar)
	}

	// A position is still open after the last bar whether it is in
	// stateOpen or awaiting its exit-rule fill in stateExit.
	if r.pos != nil {
		last := bars[len(bars)-1]
		trade := r.pos.ToTrade(last.Time, last.Close, model.ExitFinalize)
		r.trades = append(r.trades, trade)
		r.pos = nil
		r.state = stateNone
	}

	return r.trades, nil
}

func (r *runner) processBar(bar model.IndicatorBar) error {
	switch r.state {
	case stateNone:
		return r.processNone(bar)
	case stateEnter:
		return r.processEnter(bar)
	case stateOpen:
		return r.processOpen(bar)
	case stateExit:
		return r.processExit(bar)
	default:
		return ErrUnreachableState
	}
}

func (r *runner) processNone(bar model.IndicatorBar) error {
	if r.strat.EntryRule == nil {
		return nil
	}
	r.callbackErr = nil
	entered := false
	var opts *strategy.EnterOptions
	enterFn := func(o *strategy.EnterOptions) {
		if r.state != stateNone {
			r.callbackErr = ErrEnterWhileInPosition
			return
		}
		entered = true
		opts = o
	}
	ctx := strategy.EntryContext{Bar: bar, Lookback: r.lb.View(), Parameters: r.strat.Parameters}
	r.strat.EntryRule(enterFn, ctx)
	if r.callbackErr != nil {
		return r.callbackErr
	}
	if !entered {
		return nil
	}
	direction := model.Long
	var entryPrice *float64
	if opts != nil {
		if opts.Direction != nil {
			direction = *opts.Direction
		}
		entryPrice = opts.EntryPrice
	}
	r.pendingDirection = direction
	r.pendingEntryPrice = entryPrice
	r.state = stateEnter
	return nil
}

func (r *runner) processEnter(bar model.IndicatorBar) error {
	if r.pendingEntryPrice != nil {
		gate := *r.pendingEntryPrice
		if r.pendingDirection == model.Long {
			if bar.High < gate {
				return nil // remain in Enter
			}
		} else {
			if bar.Low > gate {
				return nil // remain in Enter
			}
		}
	}
	r.openPosition(bar)
	return nil
}

func (r *runner) openPosition(bar model.IndicatorBar) {
	entryPrice := bar.Open
	pos := &model.Position{
		Direction:  r.pendingDirection,
		EntryTime:  bar.Time,
		EntryPrice: entryPrice,
		Growth:     1,
		Profit:     0,
	}

	ctx := strategy.PositionContext{
		Bar: bar, Lookback: r.lb.View(), EntryPrice: entryPrice, Position: pos, Parameters: r.strat.Parameters,
	}

	if r.strat.StopLoss != nil {
		d := r.strat.StopLoss(ctx)
		stop := stopPriceFromDistance(pos.Direction, entryPrice, d)
		pos.InitialStopPrice = &stop
		cur := stop
		pos.CurStopPrice = &cur
	}

	if r.strat.TrailingStopLoss != nil {
		t := r.strat.TrailingStopLoss(ctx)
		candidate := stopPriceFromDistance(pos.Direction, entryPrice, t)
		if pos.InitialStopPrice == nil {
			pos.InitialStopPrice = &candidate
		} else {
			tightened := tightenStop(pos.Direction, *pos.InitialStopPrice, candidate)
			pos.InitialStopPrice = &tightened
		}
		cur := *pos.InitialStopPrice
		pos.CurStopPrice = &cur
		if r.opts.RecordStopPrice {
			pos.StopPriceSeries = []model.RiskPoint{{Time: bar.Time, Value: cur}}
		}
	}

	if pos.CurStopPrice != nil {
		unitRisk := entryPrice - *pos.CurStopPrice
		if pos.Direction == model.Short {
			unitRisk = *pos.CurStopPrice - entryPrice
		}
		riskPct := unitRisk / entryPrice * 100
		pos.InitialUnitRisk = &unitRisk
		pos.InitialRiskPct = &riskPct
		curRiskPct := riskPct
		pos.CurRiskPct = &curRiskPct
		zero := 0.0
		pos.CurRMultiple = &zero
		if r.opts.RecordRisk {
			pos.RiskSeries = []model.RiskPoint{{Time: bar.Time, Value: riskPct}}
		}
	}

	if r.strat.ProfitTarget != nil {
		p := r.strat.ProfitTarget(ctx)
		target := profitTargetFromDistance(pos.Direction, entryPrice, p)
		pos.ProfitTarget = &target
	}

	r.pos = pos
	r.state = stateOpen
}

func stopPriceFromDistance(dir model.TradeDirection, entry, distance float64) float64 {
	if dir == model.Long {
		return entry - distance
	}
	return entry + distance
}

func profitTargetFromDistance(dir model.TradeDirection, entry, distance float64) float64 {
	if dir == model.Long {
		return entry + distance
	}
	return entry - distance
}

// tightenStop enforces the monotone trailing-stop invariant: a stop may
// only move in the trader's favor (up for Long, down for Short).
func tightenStop(dir model.TradeDirection, existing, candidate float64) float64 {
	if dir == model.Long {
		if candidate > existing {
			return candidate
		}
		return existing
	}
	if candidate < existing {
		return candidate
	}
	return existing
}

func (r *runner) processOpen(bar model.IndicatorBar) error {
	pos := r.pos

	// a. stop-loss hit, checked against the stop level in effect at the
	// start of the bar (before today's ratchet) — a pessimistic
	// convention that must be preserved even though it can shade a
	// profit-target hit reachable on the same bar.
	if pos.CurStopPrice != nil {
		hit := false
		if pos.Direction == model.Long {
			hit = bar.Low <= *pos.CurStopPrice
		} else {
			hit = bar.High >= *pos.CurStopPrice
		}
		if hit {
			r.closePosition(bar.Time, *pos.CurStopPrice, model.ExitStopLoss)
			return nil
		}
	}

	// b. trailing-stop ratchet.
	if r.strat.TrailingStopLoss != nil {
		ctx := strategy.PositionContext{Bar: bar, Lookback: r.lb.View(), EntryPrice: pos.EntryPrice, Position: pos, Parameters: r.strat.Parameters}
		t := r.strat.TrailingStopLoss(ctx)
		candidate := stopPriceFromDistance(pos.Direction, bar.Close, t)
		if pos.CurStopPrice == nil {
			pos.CurStopPrice = &candidate
		} else {
			tightened := tightenStop(pos.Direction, *pos.CurStopPrice, candidate)
			pos.CurStopPrice = &tightened
		}
		if r.opts.RecordStopPrice {
			pos.StopPriceSeries = append(pos.StopPriceSeries, model.RiskPoint{Time: bar.Time, Value: *pos.CurStopPrice})
		}
	}

	// c. profit-target hit.
	if pos.ProfitTarget != nil {
		hit := false
		if pos.Direction == model.Long {
			hit = bar.High >= *pos.ProfitTarget
		} else {
			hit = bar.Low <= *pos.ProfitTarget
		}
		if hit {
			r.closePosition(bar.Time, *pos.ProfitTarget, model.ExitProfitTarget)
			return nil
		}
	}

	// d. refresh running metrics.
	pos.Update(bar.Bar)

	// e. optional risk series sample.
	if r.opts.RecordRisk && pos.CurRiskPct != nil {
		pos.RiskSeries = append(pos.RiskSeries, model.RiskPoint{Time: bar.Time, Value: *pos.CurRiskPct})
	}

	// f. exit rule.
	if r.strat.ExitRule != nil {
		r.callbackErr = nil
		signaled := false
		exitFn := func() {
			if r.state != stateOpen {
				r.callbackErr = ErrExitWhileNotInPosition
				return
			}
			signaled = true
		}
		ctx := strategy.PositionContext{Bar: bar, Lookback: r.lb.View(), EntryPrice: pos.EntryPrice, Position: pos, Parameters: r.strat.Parameters}
		r.strat.ExitRule(exitFn, ctx)
		if r.callbackErr != nil {
			return r.callbackErr
		}
		if signaled {
			r.state = stateExit
		}
	}
	return nil
}

func (r *runner) processExit(bar model.IndicatorBar) error {
	r.closePosition(bar.Time, bar.Open, model.ExitRule)
	return nil
}

func (r *runner) closePosition(exitTime time.Time, exitPrice float64, reason model.ExitReason) {
	trade := r.pos.ToTrade(exitTime, exitPrice, reason)
	r.trades = append(r.trades, trade)
	r.pos = nil
	r.state = stateNone
}
