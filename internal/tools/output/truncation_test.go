package output

import (
	"strings"
	"testing"
)

func makeItems(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name        string
		items       []int
		maxItems    int
		wantLen     int
		wantWarning bool
	}{
		{name: "empty", items: []int{}, maxItems: 100, wantLen: 0},
		{name: "under limit", items: makeItems(50), maxItems: 100, wantLen: 50},
		{name: "at limit", items: makeItems(100), maxItems: 100, wantLen: 100},
		{name: "over limit", items: makeItems(150), maxItems: 100, wantLen: 100, wantWarning: true},
		{name: "uses default when maxItems is 0", items: makeItems(150), maxItems: 0, wantLen: DefaultMaxItems, wantWarning: true},
		{name: "uses default when maxItems is negative", items: makeItems(150), maxItems: -1, wantLen: DefaultMaxItems, wantWarning: true},
		{name: "caps at absolute maximum", items: makeItems(1500), maxItems: 2000, wantLen: AbsoluteMaxItems, wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, warning := Truncate(tt.items, tt.maxItems)

			if len(result) != tt.wantLen {
				t.Errorf("Truncate() len = %d, want %d", len(result), tt.wantLen)
			}
			if tt.wantWarning && warning == nil {
				t.Fatal("Truncate() expected warning, got nil")
			}
			if !tt.wantWarning && warning != nil {
				t.Errorf("Truncate() unexpected warning: %v", warning)
			}
			if warning != nil {
				if warning.Shown != tt.wantLen || warning.Total != len(tt.items) {
					t.Errorf("warning = %d of %d, want %d of %d", warning.Shown, warning.Total, tt.wantLen, len(tt.items))
				}
			}
		})
	}
}

func TestTruncate_KeepsOrder(t *testing.T) {
	result, _ := Truncate(makeItems(10), 3)
	for i, v := range result {
		if v != i {
			t.Errorf("result[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestTruncate_SuggestsFiltersForLargeResults(t *testing.T) {
	_, warning := Truncate(makeItems(DefaultMaxItems*5+1), 10)
	if warning == nil || len(warning.SuggestFilters) == 0 {
		t.Error("expected filter suggestions for a very large result")
	}

	_, warning = Truncate(makeItems(20), 10)
	if warning == nil || len(warning.SuggestFilters) != 0 {
		t.Error("expected no filter suggestions for a small result")
	}
}

func TestEffectiveLimit(t *testing.T) {
	tests := []struct {
		name         string
		requestLimit int
		configLimit  int
		want         int
	}{
		{"no limits", 0, 0, DefaultMaxItems},
		{"config only", 0, 50, 50},
		{"request only", 30, 0, 30},
		{"request below config", 30, 50, 30},
		{"config below request", 80, 50, 50},
		{"request above absolute", 5000, 0, AbsoluteMaxItems},
		{"config above absolute", 0, 5000, AbsoluteMaxItems},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveLimit(tt.requestLimit, tt.configLimit); got != tt.want {
				t.Errorf("EffectiveLimit(%d, %d) = %d, want %d", tt.requestLimit, tt.configLimit, got, tt.want)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		got, cut := TruncateText("line1\nline2\n", 100)
		if cut || got != "line1\nline2\n" {
			t.Errorf("TruncateText() = %q, %v", got, cut)
		}
	})

	t.Run("keeps tail from a line boundary", func(t *testing.T) {
		text := "first line\nsecond line\nthird\n"
		got, cut := TruncateText(text, 14)
		if !cut {
			t.Fatal("expected truncation")
		}
		if got != "third\n" {
			t.Errorf("TruncateText() = %q, want %q", got, "third\n")
		}
	})

	t.Run("no newline keeps raw tail", func(t *testing.T) {
		got, cut := TruncateText(strings.Repeat("a", 20), 5)
		if !cut || got != "aaaaa" {
			t.Errorf("TruncateText() = %q, %v", got, cut)
		}
	})
}
