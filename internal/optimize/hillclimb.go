package optimize

import (
	"time"

	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/prng"
	"github.com/contactkeval/backtestlab/internal/series"
	"github.com/contactkeval/backtestlab/internal/strategy"
)

// HillClimb performs the random-restart, first-improvement local search
// (component F). This implements the *intended* semantics called out
// against the source's inner-loop bug: the local step compares
// nextResult against workingResult, and the global best is updated by
// comparing nextResult against bestResult — never a result against
// itself.
func HillClimb(strat strategy.Strategy, defs []strategy.ParameterDefinition, objective Objective, input series.Series[model.Bar], opts Options) (Result, error) {
	if len(defs) == 0 {
		return Result{}, ErrNoParameterDefinitions
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return Result{}, err
		}
	}

	numStarts := opts.NumStartingPoints
	if numStarts <= 0 {
		numStarts = 4
	}

	start := time.Now()
	rng := prng.New(uint32(opts.RandomSeed))

	axisValues := make([][]float64, len(defs))
	for i, d := range defs {
		axisValues[i] = d.Values()
	}

	visited := make(map[string]CandidateResult)
	evalCached := func(coord strategy.Coordinate) (CandidateResult, error) {
		key := coord.Key()
		if cached, ok := visited[key]; ok {
			return cached, nil
		}
		res, err := evaluate(strat, defs, coord, input, opts.BacktestOptions, objective)
		if err != nil {
			return CandidateResult{}, err
		}
		opts.recordEvaluation()
		visited[key] = res
		return res, nil
	}

	var all []CandidateResult
	best := CandidateResult{Metric: opts.worstSentinel()}
	haveBest := false

	recordIfNew := func(res CandidateResult) {
		if opts.RecordAllResults {
			all = append(all, res)
		}
	}

	neighbors := func(coord strategy.Coordinate) []strategy.Coordinate {
		var out []strategy.Coordinate
		for _, dir := range []float64{1, -1} {
			for axis, d := range defs {
				cand := append(strategy.Coordinate(nil), coord...)
				cand[axis] += dir * d.StepSize
				if cand[axis] < d.StartingValue-1e-9 || cand[axis] > d.EndingValue+1e-9 {
					continue
				}
				out = append(out, cand)
			}
		}
		return out
	}

	randomCoordinate := func() strategy.Coordinate {
		coord := make(strategy.Coordinate, len(defs))
		for i, values := range axisValues {
			coord[i] = values[rng.IntN(len(values))]
		}
		return coord
	}

	for s := 0; s < numStarts; s++ {
		coord := randomCoordinate()
		if _, ok := visited[coord.Key()]; ok {
			continue
		}
		working, err := evalCached(coord)
		if err != nil {
			return Result{}, err
		}
		recordIfNew(working)
		if !haveBest || opts.accepts(working.Metric, best.Metric) {
			best = working
			haveBest = true
			opts.recordBest(best.Metric)
		}

		for {
			candidates := neighbors(working.Coordinate)
			moved := false
			for _, nextCoord := range candidates {
				_, alreadyCached := visited[nextCoord.Key()]
				nextResult, err := evalCached(nextCoord)
				if err != nil {
					return Result{}, err
				}
				if !alreadyCached {
					recordIfNew(nextResult)
				}
				if opts.accepts(nextResult.Metric, best.Metric) {
					best = nextResult
					haveBest = true
					opts.recordBest(best.Metric)
				}
				if opts.accepts(nextResult.Metric, working.Metric) {
					working = nextResult
					moved = true
					break
				}
			}
			if !moved {
				break
			}
		}
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
