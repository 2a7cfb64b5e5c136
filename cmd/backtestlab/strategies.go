package main

import (
	"fmt"

	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/series"
	"github.com/contactkeval/backtestlab/internal/strategy"
)

// builtinStrategies maps a config "strategy" name to a constructor. The
// core backtest/optimize packages are strategy-agnostic; this registry
// is the CLI-only glue that turns a config name into a concrete
// rule-callback set (spec.md explicitly leaves the strategy itself
// outside the core's contract — it is user-supplied).
var builtinStrategies = map[string]func() strategy.Strategy{
	"sma-crossover": smaCrossoverStrategy,
}

func lookupStrategy(name string) (strategy.Strategy, error) {
	ctor, ok := builtinStrategies[name]
	if !ok {
		return strategy.Strategy{}, fmt.Errorf("main: unknown strategy %q", name)
	}
	return ctor(), nil
}

// smaCrossoverStrategy implements the mean-reversion scenario from
// spec.md §8.1: enter when close falls below its simple moving average,
// exit when it recovers above it. smaPeriod is read from Parameters,
// defaulting to 3.
func smaCrossoverStrategy() strategy.Strategy {
	return strategy.Strategy{
		LookbackPeriod: 1,
		Parameters:     strategy.Parameters{"smaPeriod": 3, "stopLossPct": 0, "profitTargetPct": 0},
		PrepIndicators: computeSMA,
		EntryRule: func(enter strategy.EnterFunc, ctx strategy.EntryContext) {
			sma, ok := ctx.Bar.Value("sma")
			if !ok {
				return
			}
			if ctx.Bar.Close < sma {
				enter(nil)
			}
		},
		ExitRule: func(exit strategy.ExitFunc, ctx strategy.PositionContext) {
			sma, ok := ctx.Bar.Value("sma")
			if !ok {
				return
			}
			if ctx.Bar.Close > sma {
				exit()
			}
		},
		StopLoss: func(ctx strategy.PositionContext) float64 {
			pct := ctx.Parameters["stopLossPct"]
			if pct <= 0 {
				return 0
			}
			return ctx.EntryPrice * pct / 100
		},
		ProfitTarget: func(ctx strategy.PositionContext) float64 {
			pct := ctx.Parameters["profitTargetPct"]
			if pct <= 0 {
				return 0
			}
			return ctx.EntryPrice * pct / 100
		},
	}
}

// computeSMA is a PrepIndicatorsFunc computing a trailing simple moving
// average of "smaPeriod" bars (including the current bar) into an
// "sma" indicator field.
func computeSMA(params strategy.Parameters, input series.Series[model.Bar]) series.Series[model.IndicatorBar] {
	period := int(params["smaPeriod"])
	if period < 1 {
		period = 3
	}
	bars := input.Bake()
	out := make([]model.IndicatorBar, len(bars))
	sum := 0.0
	for i, b := range bars {
		sum += b.Close
		if i >= period {
			sum -= bars[i-period].Close
		}
		ib := model.IndicatorBar{Bar: b}
		if i >= period-1 {
			ib.Extra = map[string]float64{"sma": sum / float64(period)}
		}
		out[i] = ib
	}
	return series.New(out)
}
