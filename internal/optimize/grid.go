package optimize

import (
	"fmt"
	"math"
	"time"

	"github.com/contactkeval/backtestlab/internal/backtest"
	"github.com/contactkeval/backtestlab/internal/metrics"
	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/series"
	"github.com/contactkeval/backtestlab/internal/strategy"
)

// SearchDirection selects whether the optimizer hunts for the maximum or
// minimum objective value.
type SearchDirection int

const (
	Max SearchDirection = iota
	Min
)

// Options configures both the grid-search and hill-climb optimizers.
type Options struct {
	SearchDirection    SearchDirection
	RecordAllResults   bool
	RecordDuration     bool
	BacktestOptions    backtest.Options
	NumStartingPoints  int   // hill-climb only, default 4
	RandomSeed         int64 // hill-climb only, default 0
	Metrics            *metrics.Metrics // optional; nil disables instrumentation
}

// CandidateResult pairs one evaluated coordinate with its metric.
type CandidateResult struct {
	Coordinate strategy.Coordinate
	Parameters strategy.Parameters
	Metric     float64
	Trades     []model.Trade
}

// Result is the outcome of a grid-search or hill-climb run.
type Result struct {
	BestResult          CandidateResult
	BestParameterValues strategy.Parameters
	AllResults          []CandidateResult // only populated if RecordAllResults
	DurationMS          float64           // only populated if RecordDuration
}

// ErrNoParameterDefinitions is returned when the optimizer is given an
// empty search space.
var ErrNoParameterDefinitions = fmt.Errorf("optimize: at least one parameter definition is required")

func (o Options) accepts(candidate, best float64) bool {
	if o.SearchDirection == Min {
		return candidate < best
	}
	return candidate > best
}

func (o Options) worstSentinel() float64 {
	if o.SearchDirection == Min {
		return math.Inf(1)
	}
	return math.Inf(-1)
}

func (o Options) recordEvaluation() {
	if o.Metrics != nil {
		o.Metrics.OptimizeEvaluations.Inc()
	}
}

func (o Options) recordBest(metric float64) {
	if o.Metrics != nil {
		o.Metrics.OptimizeBestMetric.Set(metric)
	}
}

// evaluate clones strat, overlays coord as parameter overrides, runs the
// backtest oracle, and reduces the resulting trades with objective.
func evaluate(strat strategy.Strategy, defs []strategy.ParameterDefinition, coord strategy.Coordinate, input series.Series[model.Bar], opts backtest.Options, objective Objective) (CandidateResult, error) {
	candidate := strat.Clone()
	candidate.Parameters = strategy.Overlay(candidate.Parameters, defs, coord)
	trades, err := backtest.Run(candidate, input, opts)
	if err != nil {
		return CandidateResult{}, err
	}
	return CandidateResult{
		Coordinate: append(strategy.Coordinate(nil), coord...),
		Parameters: candidate.Parameters,
		Metric:     objective(trades),
		Trades:     trades,
	}, nil
}

// Grid performs the Cartesian-product optimizer (component E): axis 0
// is the outermost loop, values enumerated start..end by step. Ties
// (strict-inequality acceptance) favor the first coordinate visited in
// outer-axis-major order.
func Grid(strat strategy.Strategy, defs []strategy.ParameterDefinition, objective Objective, input series.Series[model.Bar], opts Options) (Result, error) {
	if len(defs) == 0 {
		return Result{}, ErrNoParameterDefinitions
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return Result{}, err
		}
	}

	start := time.Now()
	axisValues := make([][]float64, len(defs))
	for i, d := range defs {
		axisValues[i] = d.Values()
	}

	var all []CandidateResult
	best := CandidateResult{Metric: opts.worstSentinel()}
	haveBest := false

	coord := make(strategy.Coordinate, len(defs))
	var walk func(axis int) error
	walk = func(axis int) error {
		if axis == len(defs) {
			res, err := evaluate(strat, defs, coord, input, opts.BacktestOptions, objective)
			if err != nil {
				return err
			}
			opts.recordEvaluation()
			if opts.RecordAllResults {
				all = append(all, res)
			}
			if !haveBest || opts.accepts(res.Metric, best.Metric) {
				best = res
				haveBest = true
				opts.recordBest(best.Metric)
			}
			return nil
		}
		for _, v := range axisValues[axis] {
			coord[axis] = v
			if err := walk(axis + 1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0); err != nil {
		return Result{}, err
	}

	result := Result{BestResult: best, BestParameterValues: best.Parameters}
	if opts.RecordAllResults {
		result.AllResults = all
	}
	if opts.RecordDuration {
		result.DurationMS = float64(time.Since(start).Microseconds()) / 1000
	}
	return result, nil
}
