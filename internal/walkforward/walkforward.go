// Package walkforward implements the sliding in/out-of-sample evaluation
// harness (component G): optimize in-sample, apply the winning
// parameters out-of-sample, slide, repeat.
package walkforward

import (
	"fmt"
	"math"

	"github.com/contactkeval/backtestlab/internal/backtest"
	"github.com/contactkeval/backtestlab/internal/metrics"
	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/optimize"
	"github.com/contactkeval/backtestlab/internal/prng"
	"github.com/contactkeval/backtestlab/internal/series"
	"github.com/contactkeval/backtestlab/internal/strategy"
)

// OptimizerKind selects the search algorithm used for each in-sample
// window.
type OptimizerKind int

const (
	GridSearch OptimizerKind = iota
	HillClimbSearch
)

// Options configures one walk-forward run.
type Options struct {
	Optimizer       OptimizerKind
	OptimizeOptions optimize.Options
	BacktestOptions backtest.Options
	RandomSeed      int64
	Metrics         *metrics.Metrics // optional; nil disables instrumentation
}

// Result is the concatenated out-of-sample trade list plus the
// per-window optimizer outcomes, in window order.
type Result struct {
	Trades  []model.Trade
	Windows []optimize.Result
}

var (
	// ErrNonPositiveSampleSize is returned when either window size is <= 0.
	ErrNonPositiveSampleSize = fmt.Errorf("walkforward: inSampleSize and outSampleSize must both be > 0")
)

// Run slides a pair of in-sample/out-of-sample windows across input,
// optimizing in-sample and backtesting the winning parameters
// out-of-sample, advancing by outSampleSize each iteration. Windows run
// sequentially: each window's optimizer seed is drawn from the harness
// PRNG in window order, so window N's seed depends on N-1 having already
// consumed the shared generator — parallelizing would require
// pre-deriving every seed up front, which this harness does not do.
func Run(strat strategy.Strategy, defs []strategy.ParameterDefinition, objective optimize.Objective, input series.Series[model.Bar], inSampleSize, outSampleSize int, opts Options) (Result, error) {
	if inSampleSize <= 0 || outSampleSize <= 0 {
		return Result{}, ErrNonPositiveSampleSize
	}

	rng := prng.New(uint32(opts.RandomSeed))

	var result Result
	offset := 0
	for {
		in := input.Skip(offset).Take(inSampleSize)
		out := input.Skip(offset + inSampleSize).Take(outSampleSize)
		if out.Count() < outSampleSize {
			break
		}

		windowSeed := int64(math.Floor(rng.Float64() * float64(int64(1)<<31)))
		windowOpts := opts.OptimizeOptions
		windowOpts.RandomSeed = windowSeed
		windowOpts.BacktestOptions = opts.BacktestOptions

		var windowResult optimize.Result
		var err error
		switch opts.Optimizer {
		case HillClimbSearch:
			windowResult, err = optimize.HillClimb(strat, defs, objective, in, windowOpts)
		default:
			windowResult, err = optimize.Grid(strat, defs, objective, in, windowOpts)
		}
		if err != nil {
			return Result{}, err
		}

		outStrat := strat.Clone()
		outStrat.Parameters = windowResult.BestParameterValues
		trades, err := backtest.Run(outStrat, out, opts.BacktestOptions)
		if err != nil {
			return Result{}, err
		}

		result.Trades = append(result.Trades, trades...)
		result.Windows = append(result.Windows, windowResult)
		if opts.Metrics != nil {
			opts.Metrics.WalkForwardWindows.Inc()
		}
		offset += outSampleSize
	}

	return result, nil
}
