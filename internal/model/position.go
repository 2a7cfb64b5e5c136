package model

import "time"

// Position is a mutable open trade. It exists only between the bar it was
// created on and the bar it is converted into a Trade; the engine holds at
// most one at a time.
type Position struct {
	Direction  TradeDirection
	EntryTime  time.Time
	EntryPrice float64

	Profit        float64
	ProfitPct     float64
	Growth        float64
	HoldingPeriod int

	InitialStopPrice *float64
	CurStopPrice     *float64
	InitialUnitRisk  *float64
	InitialRiskPct   *float64
	CurRiskPct       *float64
	CurRMultiple     *float64

	ProfitTarget *float64

	StopPriceSeries []RiskPoint
	RiskSeries      []RiskPoint
}

// unitRisk returns close - curStopPrice for Long, curStopPrice - close for
// Short. Caller must ensure CurStopPrice is set.
func (p *Position) unitRisk(close float64) float64 {
	if p.Direction == Long {
		return close - *p.CurStopPrice
	}
	return *p.CurStopPrice - close
}

// Update refreshes the running metrics for the bar just processed and
// increments HoldingPeriod. It does not evaluate exits; the caller
// (internal/backtest) is responsible for exit-priority ordering.
func (p *Position) Update(b Bar) {
	if p.Direction == Long {
		p.Profit = b.Close - p.EntryPrice
		p.Growth = b.Close / p.EntryPrice
	} else {
		p.Profit = p.EntryPrice - b.Close
		p.Growth = p.EntryPrice / b.Close
	}
	p.ProfitPct = p.Profit / p.EntryPrice * 100
	p.HoldingPeriod++

	if p.CurStopPrice != nil {
		risk := p.unitRisk(b.Close)
		riskPct := risk / p.EntryPrice * 100
		p.CurRiskPct = &riskPct
		if p.InitialUnitRisk != nil && *p.InitialUnitRisk != 0 {
			rm := p.Profit / *p.InitialUnitRisk
			p.CurRMultiple = &rm
		}
	}
}

// ToTrade finalizes the position into an immutable Trade.
func (p *Position) ToTrade(exitTime time.Time, exitPrice float64, reason ExitReason) Trade {
	profit, growth := directionalProfitGrowth(p.Direction, p.EntryPrice, exitPrice)
	t := Trade{
		Direction:     p.Direction,
		EntryTime:     p.EntryTime,
		EntryPrice:    p.EntryPrice,
		ExitTime:      exitTime,
		ExitPrice:     exitPrice,
		Profit:        profit,
		ProfitPct:     profit / p.EntryPrice * 100,
		Growth:        growth,
		HoldingPeriod: p.HoldingPeriod,
		ExitReason:    reason,
		StopPrice:     p.InitialStopPrice,
		ProfitTarget:  p.ProfitTarget,
	}
	if len(p.StopPriceSeries) > 0 {
		t.StopPriceSeries = p.StopPriceSeries
	}
	if len(p.RiskSeries) > 0 {
		t.RiskSeries = p.RiskSeries
	}
	if p.InitialRiskPct != nil {
		riskPct := *p.CurRiskPct
		t.RiskPct = &riskPct
	}
	if p.InitialUnitRisk != nil && *p.InitialUnitRisk != 0 {
		rm := profit / *p.InitialUnitRisk
		t.RMultiple = &rm
	}
	return t
}

func directionalProfitGrowth(dir TradeDirection, entry, exit float64) (profit, growth float64) {
	if dir == Long {
		return exit - entry, exit / entry
	}
	return entry - exit, entry / exit
}
