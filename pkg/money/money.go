// Package money holds small helpers for monetary amounts carried as
// shopspring decimals.
package money

import (
	"github.com/shopspring/decimal"
)

// Monthly12 is the number of months in a year as a decimal.
var Monthly12 = decimal.NewFromInt(12)

// FromFloat converts a float64 amount to a decimal.
func FromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// FromString parses a decimal amount.
func FromString(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(value)
}

// Cents rounds an amount to two decimal places.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Whole rounds an amount to whole currency units.
func Whole(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of two amounts.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Take draws up to need from available, never returning a negative amount.
// Negative need or available is treated as zero.
func Take(need, available decimal.Decimal) decimal.Decimal {
	return Min(NonNegative(need), NonNegative(available))
}

// Sum adds any number of amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Annual converts a monthly amount to annual.
func Annual(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(Monthly12)
}

// Monthly converts an annual amount to monthly.
func Monthly(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(Monthly12)
}

// Format renders an amount as whole dollars with a leading currency sign.
func Format(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(0)
	}
	return "$" + d.StringFixed(0)
}
