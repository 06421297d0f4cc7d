// Package numeric provides the coercion helpers applied at every formula
// boundary. The analytics formulas are total functions: malformed numeric
// input (NaN, ±Inf) is coerced to zero instead of propagating.
package numeric

import "math"

// Coerce maps NaN and ±Inf to 0 and returns any other value unchanged.
func Coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SafeDiv divides num by den, returning 0 when the denominator is zero or the
// result is not a finite number.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return Coerce(num / den)
}

// ClampPercent restricts a percentage to the [0, 100] range.
func ClampPercent(v float64) float64 {
	v = Coerce(v)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
