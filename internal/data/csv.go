package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/contactkeval/backtestlab/internal/model"
)

// CSVProvider reads bars from a local file with header
// date,open,high,low,close,volume.
type CSVProvider struct {
	Path string
}

// NewCSVProvider is a convenience constructor.
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{Path: path}
}

func (p *CSVProvider) GetDailyBars(symbol string, from, to time.Time) ([]model.Bar, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("data: open csv %s: %w", p.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("data: read csv %s: %w", p.Path, err)
	}

	var out []model.Bar
	for i, row := range records {
		if i == 0 {
			continue // header
		}
		if len(row) < 6 {
			continue
		}
		t, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			return nil, fmt.Errorf("data: row %d: bad date %q: %w", i, row[0], err)
		}
		bar := model.Bar{Time: t}
		fields := [5]*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume}
		for j, dst := range fields {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("data: row %d: bad numeric field %d: %w", i, j+1, err)
			}
			*dst = v
		}
		if (t.Before(from) && !from.IsZero()) || (t.After(to) && !to.IsZero()) {
			continue
		}
		out = append(out, bar)
	}
	return out, nil
}
