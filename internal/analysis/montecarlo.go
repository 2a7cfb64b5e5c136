package analysis

import (
	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/prng"
)

// MonteCarloOptions configures the resampler.
type MonteCarloOptions struct {
	RandomSeed uint32
}

// MonteCarlo draws numIterations samples of numSamples trades each, with
// replacement, from trades, using a seeded PRNG for reproducibility
// (component, spec §4.G). An empty trade population returns an empty
// result.
func MonteCarlo(trades []model.Trade, numIterations, numSamples int, opts MonteCarloOptions) [][]model.Trade {
	if len(trades) == 0 {
		return nil
	}
	rng := prng.New(opts.RandomSeed)
	out := make([][]model.Trade, numIterations)
	for i := 0; i < numIterations; i++ {
		sample := make([]model.Trade, numSamples)
		for j := 0; j < numSamples; j++ {
			sample[j] = trades[rng.IntN(len(trades))]
		}
		out[i] = sample
	}
	return out
}
