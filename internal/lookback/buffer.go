// Package lookback implements the bounded ring buffer of most-recent
// indicator bars exposed to rule callbacks.
package lookback

import "github.com/contactkeval/backtestlab/internal/model"

// Buffer is a fixed-capacity ring of the most recent IndicatorBars. It
// exposes an oldest-to-newest snapshot; View allocates a new snapshot
// the first time it is called after a Push and returns that cached
// snapshot until the next Push invalidates it.
type Buffer struct {
	capacity int
	data     []model.IndicatorBar
	start    int // index of the oldest element in data
	size     int
	view     []model.IndicatorBar // cached snapshot, nil when stale
}

// New creates a Buffer with the given capacity. capacity must be >= 1.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{capacity: capacity, data: make([]model.IndicatorBar, capacity)}
}

// Push appends a bar, evicting the oldest once the buffer is full.
func (b *Buffer) Push(bar model.IndicatorBar) {
	if b.size < b.capacity {
		b.data[(b.start+b.size)%b.capacity] = bar
		b.size++
	} else {
		b.data[b.start] = bar
		b.start = (b.start + 1) % b.capacity
	}
	b.view = nil
}

// Full reports whether the buffer has reached its capacity.
func (b *Buffer) Full() bool { return b.size == b.capacity }

// Len returns the number of bars currently held.
func (b *Buffer) Len() int { return b.size }

// View returns an oldest-to-newest snapshot of the buffered bars. The
// returned slice must be treated as read-only by callers.
func (b *Buffer) View() []model.IndicatorBar {
	if b.view != nil {
		return b.view
	}
	out := make([]model.IndicatorBar, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.data[(b.start+i)%b.capacity]
	}
	b.view = out
	return out
}

// Latest returns the most recently pushed bar, or the zero value and
// false if the buffer is empty.
func (b *Buffer) Latest() (model.IndicatorBar, bool) {
	if b.size == 0 {
		return model.IndicatorBar{}, false
	}
	return b.data[(b.start+b.size-1)%b.capacity], true
}
