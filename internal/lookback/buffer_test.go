package lookback

import (
	"testing"

	"github.com/contactkeval/backtestlab/internal/model"
)

func bar(close float64) model.IndicatorBar {
	return model.IndicatorBar{Bar: model.Bar{Close: close}}
}

func TestEvictsOldestWhenFull(t *testing.T) {
	b := New(3)
	b.Push(bar(1))
	b.Push(bar(2))
	b.Push(bar(3))
	if !b.Full() {
		t.Fatalf("expected full")
	}
	b.Push(bar(4))
	view := b.View()
	if len(view) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(view))
	}
	if view[0].Close != 2 || view[1].Close != 3 || view[2].Close != 4 {
		t.Fatalf("unexpected view order: %+v", view)
	}
}

func TestNotFullBeforeCapacityReached(t *testing.T) {
	b := New(5)
	b.Push(bar(1))
	b.Push(bar(2))
	if b.Full() {
		t.Fatalf("expected not full")
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d", b.Len())
	}
}

func TestLatest(t *testing.T) {
	b := New(2)
	if _, ok := b.Latest(); ok {
		t.Fatalf("expected no latest on empty buffer")
	}
	b.Push(bar(1))
	b.Push(bar(2))
	latest, ok := b.Latest()
	if !ok || latest.Close != 2 {
		t.Fatalf("latest = %+v, %v", latest, ok)
	}
}
