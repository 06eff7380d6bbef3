// Package rounding implements the business rounding laws applied to
// landed costs and sale prices. Both laws round up, never down.
package rounding

import "math"

// CeilTo rounds v up to the nearest multiple of step.
// Null (NaN) values pass through untouched.
func CeilTo[F ~float64](v F, step float64) F {
	if math.IsNaN(float64(v)) || step <= 0 {
		return v
	}
	return F(math.Ceil(float64(v)/step) * step)
}

// brackets for Custom, smallest applicable bracket wins
var brackets = []struct {
	below float64
	step  float64
}{
	{200, 10},
	{1000, 50},
	{5000, 100},
	{20000, 500},
	{100000, 1000},
}

// Custom rounds a cost up to a step that grows with the cost's magnitude:
// below 200 to the nearest 10, below 1000 to 50, below 5000 to 100,
// below 20000 to 500, below 100000 to 1000, otherwise to 5000.
func Custom[F ~float64](v F) F {
	if math.IsNaN(float64(v)) {
		return v
	}
	for _, b := range brackets {
		if float64(v) < b.below {
			return CeilTo(v, b.step)
		}
	}
	return CeilTo(v, 5000)
}

// Consumer rounds a tiered consumer price up to the nearest 10000 when the
// price is at least 300000, otherwise to the nearest 5000.
func Consumer[F ~float64](v F) F {
	if math.IsNaN(float64(v)) {
		return v
	}
	if v >= 300000 {
		return CeilTo(v, 10000)
	}
	return CeilTo(v, 5000)
}
