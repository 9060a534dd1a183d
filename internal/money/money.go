// Package money implements fixed-point monetary arithmetic.
//
// Values are integers scaled by 1e6 (six decimal digits), so repeated
// addition and subtraction of PnL and fee components across many trades
// cannot accumulate binary floating point rounding error. All PnL, fee
// and notional aggregation in the derivation and analytics engines
// routes through this type; callers convert back to decimal only at the
// display boundary.
package money

import (
	"math"
	"strconv"
)

// Scale is the fixed-point scaling factor: six decimal digits.
const Scale = 1_000_000

// Money is a monetary amount as a scaled integer.
type Money int64

// FromFloat converts a decimal amount to fixed point, rounding to the
// nearest representable value.
func FromFloat(v float64) Money {
	return Money(math.Round(v * Scale))
}

// Float converts back to a decimal amount.
func (m Money) Float() float64 {
	return float64(m) / Scale
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return m - other
}

// Mul scales m by a decimal factor, rounding to nearest.
func (m Money) Mul(factor float64) Money {
	return Money(math.Round(float64(m) * factor))
}

// Div divides m by a decimal divisor, rounding to nearest. A zero
// divisor yields 0.
func (m Money) Div(divisor float64) Money {
	if divisor == 0 {
		return 0
	}
	return Money(math.Round(float64(m) / divisor))
}

// Sum converts each decimal value to fixed point and accumulates.
func Sum(values []float64) Money {
	var total Money
	for _, v := range values {
		total += FromFloat(v)
	}
	return total
}

// Ratio returns a/b as a decimal, or 0 when b is 0.
func Ratio(a, b Money) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// SafeDiv returns numerator/denominator, or 0 when the denominator is 0.
// Analytics ratios use this so an empty input always renders a number,
// never NaN.
func SafeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// MarshalJSON emits the decimal representation, so API consumers see
// plain numbers while internal arithmetic stays fixed point.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', -1, 64)), nil
}

// UnmarshalJSON parses a decimal number into fixed point.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*m = FromFloat(v)
	return nil
}
