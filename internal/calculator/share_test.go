package calculator

import (
	"math"
	"testing"
)

func TestFeeAdjusted(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		fees     float64
		subtotal float64
		want     float64
	}{
		{name: "proportional share", base: 60, fees: 15, subtotal: 100, want: 69},
		{name: "full subtotal takes full fees", base: 50, fees: 8, subtotal: 50, want: 58},
		{name: "zero base stays zero", base: 0, fees: 15, subtotal: 100, want: 0},
		{name: "zero fees", base: 42, fees: 0, subtotal: 100, want: 42},
		{name: "zero subtotal clamps divisor", base: 0, fees: 9, subtotal: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := feeAdjusted(tt.base, tt.fees, tt.subtotal)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("feeAdjusted(%v, %v, %v) = %v, want %v", tt.base, tt.fees, tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestEqualSharesSumToPrice(t *testing.T) {
	// For any assignee count the per-person shares must recombine to the
	// item price within floating-point tolerance.
	for k := 1; k <= 100; k++ {
		price := 17.31
		share := price / float64(k)
		if sum := share * float64(k); math.Abs(sum-price) > 1e-9 {
			t.Errorf("k=%d: shares sum to %v, want %v", k, sum, price)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 12.344, want: 12.34},
		{in: 12.345, want: 12.35},  // half away from zero
		{in: -12.345, want: -12.35},
		{in: 2.675, want: 2.68},
		{in: 0, want: 0},
		{in: 19.999999999999996, want: 20},
	}

	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
