package series

import "testing"

func TestSkipTakeCount(t *testing.T) {
	s := New([]int{1, 2, 3, 4, 5})
	if s.Count() != 5 {
		t.Fatalf("count = %d", s.Count())
	}
	out := s.Skip(1).Take(2).Bake()
	if len(out) != 2 || out[0] != 2 || out[1] != 3 {
		t.Fatalf("unexpected window: %v", out)
	}
}

func TestNoneAndLast(t *testing.T) {
	empty := New([]int{})
	if !empty.None() {
		t.Fatalf("expected empty series to be none()")
	}
	s := New([]int{1, 2, 3})
	last, ok := s.Last()
	if !ok || last != 3 {
		t.Fatalf("last = %v, %v", last, ok)
	}
}

func TestSkipBeyondLengthClampsToEmpty(t *testing.T) {
	s := New([]int{1, 2, 3})
	if !s.Skip(10).None() {
		t.Fatalf("expected skip beyond length to be empty")
	}
	if !s.Take(-1).None() {
		t.Fatalf("expected negative take to be empty")
	}
}

func TestForEachOrder(t *testing.T) {
	s := New([]int{1, 2, 3})
	var out []int
	s.ForEach(func(v int) { out = append(out, v) })
	if len(out) != 3 || out[0] != 1 || out[2] != 3 {
		t.Fatalf("unexpected order: %v", out)
	}
}
