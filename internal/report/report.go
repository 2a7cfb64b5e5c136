// Package report writes a finalized trade list to disk as JSON and CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contactkeval/backtestlab/internal/model"
)

// WriteJSON serializes trades as indented JSON to <outdir>/trades.json.
func WriteJSON(trades []model.Trade, outdir string) error {
	b, err := json.MarshalIndent(trades, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "trades.json"), b, 0644)
}

var csvHeaders = []string{
	"direction", "entry_time", "entry_price", "exit_time", "exit_price",
	"profit", "profit_pct", "growth", "rmultiple", "holding_period", "exit_reason",
}

// WriteCSV writes trades as CSV to <outdir>/trades.csv.
func WriteCSV(trades []model.Trade, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "trades.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(csvHeaders); err != nil {
		return err
	}
	for _, t := range trades {
		rmultiple := ""
		if t.RMultiple != nil {
			rmultiple = fmt.Sprintf("%.4f", *t.RMultiple)
		}
		row := []string{
			string(t.Direction),
			t.EntryTime.Format("2006-01-02"),
			fmt.Sprintf("%.4f", t.EntryPrice),
			t.ExitTime.Format("2006-01-02"),
			fmt.Sprintf("%.4f", t.ExitPrice),
			fmt.Sprintf("%.4f", t.Profit),
			fmt.Sprintf("%.4f", t.ProfitPct),
			fmt.Sprintf("%.6f", t.Growth),
			rmultiple,
			fmt.Sprintf("%d", t.HoldingPeriod),
			string(t.ExitReason),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
