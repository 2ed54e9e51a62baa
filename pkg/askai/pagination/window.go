package pagination

import (
	"sync"
	"time"
)

const (
	// DefaultVisibleItems is the initial size of the rendering window.
	DefaultVisibleItems = 20
	// LoadMoreIncrement is how many older items each LoadMoreItems reveals.
	LoadMoreIncrement = 10
)

// Window bounds how many items of a long conversation are rendered at once
// without discarding data. It is purely a rendering-window mechanism: it
// never triggers a fetch, all items already exist locally. The visible count
// only grows for the lifetime of an active session and resets when the
// active session changes.
type Window struct {
	mu            sync.Mutex
	visible       int
	initial       int
	increment     int
	isLoadingMore bool
	delay         time.Duration
}

// NewWindow creates a window with the default visible count. delay is the
// artificial staged-reveal pause applied by LoadMoreItems; it is a UX delay,
// not a real async boundary, and may be zero.
func NewWindow(delay time.Duration) *Window {
	return NewWindowSized(DefaultVisibleItems, LoadMoreIncrement, delay)
}

// NewWindowSized creates a window with explicit sizes. Non-positive values
// fall back to the defaults.
func NewWindowSized(initial, increment int, delay time.Duration) *Window {
	if initial <= 0 {
		initial = DefaultVisibleItems
	}
	if increment <= 0 {
		increment = LoadMoreIncrement
	}
	return &Window{visible: initial, initial: initial, increment: increment, delay: delay}
}

func (w *Window) VisibleItemCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *Window) IsLoadingMore() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isLoadingMore
}

// LoadMoreItems grows the window by the configured increment clamped to total.
// It is a no-op when the window already covers the whole conversation or
// another reveal is in progress. Reports whether the window grew.
func (w *Window) LoadMoreItems(total int) bool {
	w.mu.Lock()
	if w.visible >= total || w.isLoadingMore {
		w.mu.Unlock()
		return false
	}
	w.isLoadingMore = true
	delay := w.delay
	w.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	w.mu.Lock()
	w.visible += w.increment
	if w.visible > total {
		w.visible = total
	}
	w.isLoadingMore = false
	w.mu.Unlock()
	return true
}

// Reset restores the initial window. Called when the active session changes;
// within one session the count is monotonic.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = w.initial
	w.isLoadingMore = false
}
