package walkforward

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/contactkeval/backtestlab/internal/metrics"
	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/optimize"
	"github.com/contactkeval/backtestlab/internal/series"
	"github.com/contactkeval/backtestlab/internal/strategy"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func flatBars(n int) []model.Bar {
	out := make([]model.Bar, n)
	for i := 0; i < n; i++ {
		out[i] = model.Bar{Time: day(i), Open: 100, High: 101, Low: 99, Close: 100, Volume: 1}
	}
	return out
}

func tradeCountObjective(trades []model.Trade) float64 { return float64(len(trades)) }

func holdingStrategy() strategy.Strategy {
	return strategy.Strategy{
		LookbackPeriod: 1,
		Parameters:     strategy.Parameters{},
		EntryRule: func(enter strategy.EnterFunc, ctx strategy.EntryContext) {
			enter(nil)
		},
		ExitRule: func(exit strategy.ExitFunc, ctx strategy.PositionContext) {
			if float64(ctx.Position.HoldingPeriod) >= ctx.Parameters["holdBars"] {
				exit()
			}
		},
	}
}

func TestWalkForwardSlidesWindowsAndStopsWhenOutSampleShort(t *testing.T) {
	defs := []strategy.ParameterDefinition{{Name: "holdBars", StartingValue: 1, EndingValue: 2, StepSize: 1}}
	input := series.New(flatBars(40))
	res, err := Run(holdingStrategy(), defs, tradeCountObjective, input, 10, 10, Options{
		Optimizer: GridSearch,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Windows) != 3 {
		t.Fatalf("expected 3 full 10/10 windows over 40 bars, got %d", len(res.Windows))
	}
}

func TestWalkForwardDeterministicAcrossRuns(t *testing.T) {
	defs := []strategy.ParameterDefinition{{Name: "holdBars", StartingValue: 1, EndingValue: 2, StepSize: 1}}
	input := series.New(flatBars(40))
	run := func() Result {
		res, err := Run(holdingStrategy(), defs, tradeCountObjective, input, 10, 10, Options{
			Optimizer:  GridSearch,
			RandomSeed: 5,
		})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	a := run()
	b := run()
	if len(a.Trades) != len(b.Trades) {
		t.Fatalf("non-deterministic trade count: %d vs %d", len(a.Trades), len(b.Trades))
	}
	for i := range a.Trades {
		if a.Trades[i].EntryTime != b.Trades[i].EntryTime || a.Trades[i].ExitPrice != b.Trades[i].ExitPrice {
			t.Fatalf("trade %d diverged between runs", i)
		}
	}
}

func TestWalkForwardRejectsNonPositiveSampleSizes(t *testing.T) {
	defs := []strategy.ParameterDefinition{{Name: "holdBars", StartingValue: 1, EndingValue: 2, StepSize: 1}}
	input := series.New(flatBars(10))
	if _, err := Run(holdingStrategy(), defs, tradeCountObjective, input, 0, 5, Options{}); err != ErrNonPositiveSampleSize {
		t.Fatalf("expected ErrNonPositiveSampleSize, got %v", err)
	}
	if _, err := Run(holdingStrategy(), defs, tradeCountObjective, input, 5, 0, Options{}); err != ErrNonPositiveSampleSize {
		t.Fatalf("expected ErrNonPositiveSampleSize, got %v", err)
	}
}

func TestWalkForwardRecordsWindowMetrics(t *testing.T) {
	defs := []strategy.ParameterDefinition{{Name: "holdBars", StartingValue: 1, EndingValue: 2, StepSize: 1}}
	input := series.New(flatBars(40))
	m := metrics.New()
	res, err := Run(holdingStrategy(), defs, tradeCountObjective, input, 10, 10, Options{
		Optimizer: GridSearch,
		Metrics:   m,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := counterValue(t, m.WalkForwardWindows); got != float64(len(res.Windows)) {
		t.Fatalf("expected WalkForwardWindows=%d, got %v", len(res.Windows), got)
	}
}

func TestWalkForwardUsesHillClimbWhenSelected(t *testing.T) {
	defs := []strategy.ParameterDefinition{{Name: "holdBars", StartingValue: 1, EndingValue: 3, StepSize: 1}}
	input := series.New(flatBars(40))
	res, err := Run(holdingStrategy(), defs, tradeCountObjective, input, 10, 10, Options{
		Optimizer:       HillClimbSearch,
		OptimizeOptions: optimize.Options{NumStartingPoints: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(res.Windows))
	}
}
