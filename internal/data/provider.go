// Package data supplies the market-data providers that build the
// []model.Bar input the core backtester treats as a read-only series.
// This is explicitly a collaborator, not core (spec.md §1), but a
// complete repo still ships real implementations for the CLI to use.
package data

import (
	"time"

	"github.com/contactkeval/backtestlab/internal/model"
)

// Provider supplies historical OHLCV bars for a symbol.
type Provider interface {
	GetDailyBars(symbol string, from, to time.Time) ([]model.Bar, error)
}
