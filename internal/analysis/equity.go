// Package analysis implements the pure post-processing reductions the
// core treats as out-of-scope collaborators: equity curve, drawdown,
// and Monte Carlo resampling over a finalized trade list.
package analysis

import "github.com/contactkeval/backtestlab/internal/model"

// ComputeEquityCurve returns startingCapital followed by the cumulative
// product of each trade's growth: curve[i+1] == curve[i] * trades[i].growth.
func ComputeEquityCurve(startingCapital float64, trades []model.Trade) []float64 {
	curve := make([]float64, len(trades)+1)
	curve[0] = startingCapital
	for i, t := range trades {
		curve[i+1] = curve[i] * t.Growth
	}
	return curve
}

// ComputeDrawdown returns, for each point on the equity curve, the
// signed distance to the running peak: drawdown[i] == equity[i] - peak[i],
// always <= 0.
func ComputeDrawdown(startingCapital float64, trades []model.Trade) []float64 {
	equity := ComputeEquityCurve(startingCapital, trades)
	drawdown := make([]float64, len(equity))
	peak := equity[0]
	for i, e := range equity {
		if e > peak {
			peak = e
		}
		drawdown[i] = e - peak
	}
	return drawdown
}
