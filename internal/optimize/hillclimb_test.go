package optimize

import (
	"testing"

	"github.com/contactkeval/backtestlab/internal/metrics"
	"github.com/contactkeval/backtestlab/internal/series"
	"github.com/contactkeval/backtestlab/internal/strategy"
)

func TestHillClimbFindsMonotoneCorner(t *testing.T) {
	defs := []strategy.ParameterDefinition{
		{Name: "holdBars", StartingValue: 1, EndingValue: 5, StepSize: 1},
	}
	strat := baseStrategy()
	input := series.New(flatBars(30))
	res, err := HillClimb(strat, defs, tradeCountObjective, input, Options{
		SearchDirection:   Max,
		NumStartingPoints: 3,
		RandomSeed:        42,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.BestResult.Coordinate[0] != 1 {
		t.Fatalf("expected local search to converge on holdBars=1, got %v", res.BestResult.Coordinate)
	}
}

func TestHillClimbDeterministicAcrossRuns(t *testing.T) {
	defs := []strategy.ParameterDefinition{
		{Name: "holdBars", StartingValue: 1, EndingValue: 5, StepSize: 1},
	}
	input := series.New(flatBars(30))
	run := func() Result {
		res, err := HillClimb(baseStrategy(), defs, tradeCountObjective, input, Options{
			SearchDirection:   Max,
			NumStartingPoints: 3,
			RandomSeed:        7,
		})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a := run()
	b := run()
	if a.BestResult.Coordinate[0] != b.BestResult.Coordinate[0] || a.BestResult.Metric != b.BestResult.Metric {
		t.Fatalf("hill-climb non-deterministic: %+v vs %+v", a.BestResult, b.BestResult)
	}
}

func TestHillClimbRejectsEmptyDefinitions(t *testing.T) {
	input := series.New(flatBars(5))
	if _, err := HillClimb(baseStrategy(), nil, tradeCountObjective, input, Options{}); err != ErrNoParameterDefinitions {
		t.Fatalf("expected ErrNoParameterDefinitions, got %v", err)
	}
}

func TestHillClimbRecordsMetrics(t *testing.T) {
	defs := []strategy.ParameterDefinition{
		{Name: "holdBars", StartingValue: 1, EndingValue: 5, StepSize: 1},
	}
	strat := baseStrategy()
	input := series.New(flatBars(30))
	m := metrics.New()
	res, err := HillClimb(strat, defs, tradeCountObjective, input, Options{
		SearchDirection:   Max,
		NumStartingPoints: 3,
		RandomSeed:        42,
		Metrics:           m,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := counterValue(t, m.OptimizeEvaluations); got <= 0 {
		t.Fatalf("expected at least one recorded evaluation, got %v", got)
	}
	if got := gaugeValue(t, m.OptimizeBestMetric); got != res.BestResult.Metric {
		t.Fatalf("expected best-metric gauge %v, got %v", res.BestResult.Metric, got)
	}
}

func TestHillClimbNeverEvaluatesOutOfBounds(t *testing.T) {
	defs := []strategy.ParameterDefinition{
		{Name: "holdBars", StartingValue: 2, EndingValue: 2, StepSize: 1},
	}
	strat := baseStrategy()
	input := series.New(flatBars(10))
	res, err := HillClimb(strat, defs, tradeCountObjective, input, Options{
		SearchDirection:   Max,
		NumStartingPoints: 2,
		RandomSeed:        1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.BestResult.Coordinate[0] != 2 {
		t.Fatalf("single-point grid must stay at 2, got %v", res.BestResult.Coordinate)
	}
}
