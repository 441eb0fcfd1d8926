package calculator

import "github.com/shopspring/decimal"

// feeAdjusted applies the proportional fee allocation to a base item spend:
// the participant's share of tax+delivery+service scales with their fraction
// of the receipt subtotal. A zero subtotal is clamped to 1; the base spend is
// necessarily zero in that degenerate case, so the fee share is too.
func feeAdjusted(base, fees, subtotal float64) float64 {
	effective := subtotal
	if effective == 0 {
		effective = 1
	}
	return base + fees*(base/effective)
}

// round2 rounds a monetary amount to 2 decimal places, half away from zero.
// Only final aggregates go through here; intermediate per-item shares stay
// unrounded so error doesn't compound across many small items.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
