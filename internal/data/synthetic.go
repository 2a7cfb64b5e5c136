package data

import (
	"math"
	"time"

	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/prng"
)

// SyntheticProvider generates a reproducible random-walk bar series for
// demos and tests, using internal/prng so demo data is as reproducible
// as the optimizer itself.
type SyntheticProvider struct {
	Seed        uint32
	StartPrice  float64
	DailyVolPct float64 // e.g. 0.01 for 1% daily moves
}

// NewSyntheticProvider is a convenience constructor with sensible
// defaults (start price 100, 1% daily vol).
func NewSyntheticProvider(seed uint32) *SyntheticProvider {
	return &SyntheticProvider{Seed: seed, StartPrice: 100, DailyVolPct: 0.01}
}

func (p *SyntheticProvider) GetDailyBars(symbol string, from, to time.Time) ([]model.Bar, error) {
	rng := prng.New(p.Seed)
	price := p.StartPrice
	if price <= 0 {
		price = 100
	}
	volPct := p.DailyVolPct
	if volPct <= 0 {
		volPct = 0.01
	}

	var out []model.Bar
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 1) {
		if cur.Weekday() == time.Saturday || cur.Weekday() == time.Sunday {
			continue
		}
		delta := (rng.Float64()*2 - 1) * volPct * price
		open := price
		close := price + delta
		high := math.Max(open, close) + rng.Float64()*volPct*price*0.5
		low := math.Min(open, close) - rng.Float64()*volPct*price*0.5
		out = append(out, model.Bar{
			Time:   cur,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 1000 + rng.Float64()*5000,
		})
		price = close
	}
	return out, nil
}
