package optimize

import (
	"testing"

	"github.com/contactkeval/backtestlab/internal/model"
)

func sampleTrades() []model.Trade {
	r1 := 1.5
	r2 := -0.5
	return []model.Trade{
		{Profit: 10, Growth: 1.10, RMultiple: &r1},
		{Profit: -4, Growth: 0.96, RMultiple: &r2},
	}
}

func TestExpressionObjectiveEvaluatesNamedStats(t *testing.T) {
	obj, err := ExpressionObjective("netProfit - 2*maxDrawdownPct")
	if err != nil {
		t.Fatal(err)
	}
	got := obj(sampleTrades())
	stats := computeStats(sampleTrades())
	want := stats.NetProfit - 2*stats.MaxDrawdownPct
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpressionObjectiveRejectsInvalidSyntax(t *testing.T) {
	if _, err := ExpressionObjective("net Profit +++"); err == nil {
		t.Fatal("expected parse error for malformed expression")
	}
}

func TestComputeStatsEmptyTrades(t *testing.T) {
	stats := computeStats(nil)
	if stats.FinalEquity != 1 || stats.TradeCount != 0 {
		t.Fatalf("expected neutral stats for empty trade list, got %+v", stats)
	}
}

func TestComputeStatsWinRateAndDrawdown(t *testing.T) {
	stats := computeStats(sampleTrades())
	if stats.WinRate != 0.5 {
		t.Fatalf("expected 50%% win rate, got %v", stats.WinRate)
	}
	if stats.MaxDrawdownPct > 0 {
		t.Fatalf("drawdown must be non-positive share, got %v", stats.MaxDrawdownPct)
	}
}
