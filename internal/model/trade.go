package model

import "time"

// TradeDirection is the side of a position.
type TradeDirection string

const (
	Long  TradeDirection = "long"
	Short TradeDirection = "short"
)

// ExitReason attributes why a trade was closed.
type ExitReason string

const (
	ExitStopLoss     ExitReason = "stop-loss"
	ExitProfitTarget ExitReason = "profit-target"
	ExitRule         ExitReason = "exit-rule"
	ExitFinalize     ExitReason = "finalize"
)

// RiskPoint is one sample of a recorded stop-price or risk-percent series.
type RiskPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Trade is an immutable, finalized position. Field names are part of the
// external contract: downstream analysis (equity curve, drawdown, Monte
// Carlo resampling) and report serialization depend on them directly.
type Trade struct {
	Direction      TradeDirection `json:"direction"`
	EntryTime      time.Time      `json:"entryTime"`
	EntryPrice     float64        `json:"entryPrice"`
	ExitTime       time.Time      `json:"exitTime"`
	ExitPrice      float64        `json:"exitPrice"`
	Profit         float64        `json:"profit"`
	ProfitPct      float64        `json:"profitPct"`
	Growth         float64        `json:"growth"`
	RiskPct        *float64       `json:"riskPct,omitempty"`
	RMultiple      *float64       `json:"rmultiple,omitempty"`
	RiskSeries     []RiskPoint    `json:"riskSeries,omitempty"`
	HoldingPeriod  int            `json:"holdingPeriod"`
	ExitReason     ExitReason     `json:"exitReason"`
	StopPrice      *float64       `json:"stopPrice,omitempty"`
	StopPriceSeries []RiskPoint   `json:"stopPriceSeries,omitempty"`
	ProfitTarget   *float64       `json:"profitTarget,omitempty"`
}
