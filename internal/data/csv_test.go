package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCSVProviderParsesRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bars.csv")
	content := "date,open,high,low,close,volume\n" +
		"2024-01-02,100,105,99,104,1000\n" +
		"2024-01-03,104,108,103,107,1200\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	prov := NewCSVProvider(path)
	bars, err := prov.GetDailyBars("SYN", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetDailyBars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 104 || bars[1].Open != 104 {
		t.Fatalf("unexpected bar values: %+v", bars)
	}
}

func TestCSVProviderRangeFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bars.csv")
	content := "date,open,high,low,close,volume\n" +
		"2024-01-01,1,1,1,1,1\n" +
		"2024-01-10,2,2,2,2,2\n" +
		"2024-01-20,3,3,3,3,3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	prov := NewCSVProvider(path)
	bars, err := prov.GetDailyBars("SYN", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(bars) != 1 || bars[0].Close != 2 {
		t.Fatalf("expected filtered to middle bar, got %+v", bars)
	}
}
