package analysis

import (
	"testing"

	"github.com/contactkeval/backtestlab/internal/model"
)

func TestMonteCarloShapeAndMembership(t *testing.T) {
	trades := []model.Trade{{Profit: 1}, {Profit: 2}, {Profit: 3}}
	result := MonteCarlo(trades, 5, 10, MonteCarloOptions{RandomSeed: 3})
	if len(result) != 5 {
		t.Fatalf("expected 5 iterations, got %d", len(result))
	}
	for _, sample := range result {
		if len(sample) != 10 {
			t.Fatalf("expected 10 samples, got %d", len(sample))
		}
		for _, tr := range sample {
			found := false
			for _, orig := range trades {
				if tr.Profit == orig.Profit {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("sampled trade %+v not found in original population", tr)
			}
		}
	}
}

func TestMonteCarloEmptyInput(t *testing.T) {
	result := MonteCarlo(nil, 5, 10, MonteCarloOptions{})
	if result != nil {
		t.Fatalf("expected nil result for empty trade population, got %v", result)
	}
}

func TestMonteCarloDeterministicGivenSeed(t *testing.T) {
	trades := []model.Trade{{Profit: 1}, {Profit: 2}, {Profit: 3}, {Profit: 4}}
	a := MonteCarlo(trades, 3, 5, MonteCarloOptions{RandomSeed: 99})
	b := MonteCarlo(trades, 3, 5, MonteCarloOptions{RandomSeed: 99})
	for i := range a {
		for j := range a[i] {
			if a[i][j].Profit != b[i][j].Profit {
				t.Fatalf("non-deterministic at [%d][%d]: %+v vs %+v", i, j, a[i][j], b[i][j])
			}
		}
	}
}
