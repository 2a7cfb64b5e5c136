// Package optimize implements the grid-search and hill-climb parameter
// optimizers described in the engine's design: both wrap
// internal/backtest as an oracle, cloning the strategy and overlaying a
// parameter coordinate per candidate.
package optimize

import (
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/contactkeval/backtestlab/internal/model"
)

// Objective reduces a completed trade list to a scalar the optimizer
// maximizes or minimizes.
type Objective func(trades []model.Trade) float64

// Stats are the aggregate trade statistics exposed to expression
// objectives as named variables.
type Stats struct {
	NetProfit      float64
	TradeCount     float64
	WinRate        float64
	AvgRMultiple   float64
	MaxDrawdownPct float64
	FinalEquity    float64
}

func computeStats(trades []model.Trade) Stats {
	var s Stats
	if len(trades) == 0 {
		s.FinalEquity = 1
		return s
	}

	s.TradeCount = float64(len(trades))
	wins := 0
	var rSum float64
	var rCount float64
	equity := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, t := range trades {
		s.NetProfit += t.Profit
		if t.Profit > 0 {
			wins++
		}
		if t.RMultiple != nil {
			rSum += *t.RMultiple
			rCount++
		}
		equity *= t.Growth
		if equity > peak {
			peak = equity
		}
		if dd := equity - peak; dd < maxDD {
			maxDD = dd
		}
	}
	s.WinRate = float64(wins) / s.TradeCount
	if rCount > 0 {
		s.AvgRMultiple = rSum / rCount
	}
	s.FinalEquity = equity
	if peak != 0 {
		s.MaxDrawdownPct = maxDD / peak * 100
	}
	return s
}

// asParameters renders Stats into the variable bag an expression
// objective evaluates against.
func (s Stats) asParameters() map[string]interface{} {
	return map[string]interface{}{
		"netProfit":      s.NetProfit,
		"tradeCount":     s.TradeCount,
		"winRate":        s.WinRate,
		"avgRMultiple":   s.AvgRMultiple,
		"maxDrawdownPct": s.MaxDrawdownPct,
		"finalEquity":    s.FinalEquity,
	}
}

// ErrInvalidObjectiveExpression is returned (wrapped) by
// ExpressionObjective when an expression fails to parse.
var ErrInvalidObjectiveExpression = fmt.Errorf("optimize: objective expression must evaluate to a real number")

// ExpressionObjective compiles expr once via govaluate and returns an
// Objective that evaluates it against the aggregate statistics of each
// candidate's trade list. expr may reference: netProfit, tradeCount,
// winRate, avgRMultiple, maxDrawdownPct, finalEquity. An evaluation
// error or a result that is not a real number yields an objective value
// of 0.
func ExpressionObjective(expr string) (Objective, error) {
	compiled, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrInvalidObjectiveExpression, expr, err)
	}
	return func(trades []model.Trade) float64 {
		stats := computeStats(trades)
		result, err := compiled.Evaluate(stats.asParameters())
		if err != nil {
			return 0
		}
		f, ok := result.(float64)
		if !ok {
			return 0
		}
		return f
	}, nil
}
