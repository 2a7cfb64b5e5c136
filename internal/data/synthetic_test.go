package data

import (
	"testing"
	"time"
)

func TestSyntheticProviderDeterministic(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	a, err := NewSyntheticProvider(7).GetDailyBars("SYN", from, to)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSyntheticProvider(7).GetDailyBars("SYN", from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) || len(a) == 0 {
		t.Fatalf("expected non-empty, equal-length series: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bar %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSyntheticProviderSkipsWeekends(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	bars, err := NewSyntheticProvider(1).GetDailyBars("SYN", from, to)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bars {
		if b.Time.Weekday() == time.Saturday || b.Time.Weekday() == time.Sunday {
			t.Fatalf("unexpected weekend bar: %v", b.Time)
		}
	}
}
