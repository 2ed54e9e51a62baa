package pagination

import "testing"

func TestLoadMoreItemsGrowsUntilTotal(t *testing.T) {
	w := NewWindow(0)
	total := 45

	if got := w.VisibleItemCount(); got != DefaultVisibleItems {
		t.Fatalf("initial visible = %d, want %d", got, DefaultVisibleItems)
	}

	steps := []struct {
		wantGrew    bool
		wantVisible int
	}{
		{true, 30},
		{true, 40},
		{true, 45}, // clamped to total
		{false, 45},
		{false, 45},
	}

	for i, step := range steps {
		grew := w.LoadMoreItems(total)
		if grew != step.wantGrew {
			t.Errorf("step %d: grew = %v, want %v", i, grew, step.wantGrew)
		}
		if got := w.VisibleItemCount(); got != step.wantVisible {
			t.Errorf("step %d: visible = %d, want %d", i, got, step.wantVisible)
		}
	}
}

func TestLoadMoreItemsNoOpWhenFullyVisible(t *testing.T) {
	w := NewWindow(0)
	if w.LoadMoreItems(12) {
		t.Error("window covering the whole conversation must not grow")
	}
	if got := w.VisibleItemCount(); got != DefaultVisibleItems {
		t.Errorf("visible = %d, want %d", got, DefaultVisibleItems)
	}
}

func TestNewWindowSized(t *testing.T) {
	w := NewWindowSized(5, 3, 0)
	if got := w.VisibleItemCount(); got != 5 {
		t.Fatalf("initial visible = %d, want 5", got)
	}
	if !w.LoadMoreItems(100) {
		t.Fatal("window below total must grow")
	}
	if got := w.VisibleItemCount(); got != 8 {
		t.Errorf("visible = %d, want 8", got)
	}

	w.Reset()
	if got := w.VisibleItemCount(); got != 5 {
		t.Errorf("visible after reset = %d, want 5", got)
	}

	// Non-positive sizes fall back to the defaults.
	w = NewWindowSized(0, -1, 0)
	if got := w.VisibleItemCount(); got != DefaultVisibleItems {
		t.Errorf("fallback visible = %d, want %d", got, DefaultVisibleItems)
	}
}

func TestResetRestoresDefault(t *testing.T) {
	w := NewWindow(0)
	w.LoadMoreItems(100)
	w.LoadMoreItems(100)
	if got := w.VisibleItemCount(); got != 40 {
		t.Fatalf("visible = %d, want 40", got)
	}

	w.Reset()
	if got := w.VisibleItemCount(); got != DefaultVisibleItems {
		t.Errorf("visible after reset = %d, want %d", got, DefaultVisibleItems)
	}
	if w.IsLoadingMore() {
		t.Error("reset must clear the loading flag")
	}
}
