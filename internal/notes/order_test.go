package notes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/nikbrunner/nt/internal/notes"
)

func f(v float64) *float64 {
	return &v
}

func TestOrderBetween(t *testing.T) {
	tests := []struct {
		name       string
		prev, next *float64
		want       float64
	}{
		{"drop at top", nil, f(5), 4},
		{"drop at bottom", f(5), nil, 6},
		{"equal neighbours", f(3), f(3), 2.9999},
		{"midpoint", f(2), f(4), 3},
		{"only note", nil, nil, -1},
		{"negative neighbours", f(-3), f(-1), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, notes.OrderBetween(tt.prev, tt.next), 1e-9)
		})
	}
}

func TestOrderBetween_StrictlyBetweenDistinctNeighbours(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(-1e6, 1e6).Draw(t, "a")
		gap := rapid.Float64Range(1e-3, 1e3).Draw(t, "gap")
		b := a + gap

		got := notes.OrderBetween(&a, &b)
		if !(got > a && got < b) {
			t.Fatalf("OrderBetween(%v, %v) = %v, not strictly between", a, b, got)
		}
	})
}

func TestOrderBetween_Ends(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float64Range(-1e9, 1e9).Draw(t, "v")

		if got := notes.OrderBetween(nil, &v); !(got < v) {
			t.Fatalf("top drop %v not below %v", got, v)
		}
		if got := notes.OrderBetween(&v, nil); !(got > v) {
			t.Fatalf("bottom drop %v not above %v", got, v)
		}
	})
}

func TestOrderBetween_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(-100, 100).Draw(t, "a")
		b := rapid.Float64Range(-100, 100).Draw(t, "b")

		if notes.OrderBetween(&a, &b) != notes.OrderBetween(&a, &b) {
			t.Fatal("same neighbours must yield the same order")
		}
	})
}
