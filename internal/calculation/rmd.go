package calculation

import (
	"github.com/shopspring/decimal"
)

// RMDStartAge is the first age at which a required minimum distribution applies.
const RMDStartAge = 73

// rmdMaxAge is the last age of the Uniform Lifetime table; older owners use its factor.
const rmdMaxAge = 120

// uniformLifetimeTable holds the IRS Uniform Lifetime distribution periods.
var uniformLifetimeTable = map[int]float64{
	73: 26.5, 74: 25.5, 75: 24.6, 76: 23.7, 77: 22.9, 78: 22.0, 79: 21.1,
	80: 20.2, 81: 19.4, 82: 18.5, 83: 17.7, 84: 16.8, 85: 16.0, 86: 15.2,
	87: 14.4, 88: 13.7, 89: 12.9, 90: 12.2, 91: 11.5, 92: 10.8, 93: 10.1,
	94: 9.5, 95: 8.9, 96: 8.4, 97: 7.8, 98: 7.3, 99: 6.8, 100: 6.4,
	101: 6.0, 102: 5.6, 103: 5.2, 104: 4.9, 105: 4.6, 106: 4.3, 107: 4.1,
	108: 3.9, 109: 3.7, 110: 3.5, 111: 3.4, 112: 3.3, 113: 3.1, 114: 3.0,
	115: 2.9, 116: 2.8, 117: 2.7, 118: 2.5, 119: 2.3, 120: 2.0,
}

// RMDFactor returns the distribution period for an owner's age: zero before
// RMDStartAge, the table value where one exists, 2.0 from age 120 on, and
// 27.4 - (age - 72) for any untabulated age in between.
func RMDFactor(age int) decimal.Decimal {
	return rmdFactorFrom(uniformLifetimeTable, age)
}

func rmdFactorFrom(table map[int]float64, age int) decimal.Decimal {
	if age < RMDStartAge {
		return decimal.Zero
	}
	if age >= rmdMaxAge {
		return decimal.NewFromFloat(2.0)
	}
	if factor, ok := table[age]; ok {
		return decimal.NewFromFloat(factor)
	}
	return decimal.RequireFromString("27.4").Sub(decimal.NewFromInt(int64(age - 72)))
}

// CalculateRMD returns the required distribution for a pretax balance held by
// an owner of the given age. Non-positive balances produce no distribution.
func CalculateRMD(balance decimal.Decimal, age int) decimal.Decimal {
	if age < RMDStartAge || !balance.IsPositive() {
		return decimal.Zero
	}
	factor := RMDFactor(age)
	if !factor.IsPositive() {
		return decimal.Zero
	}
	return balance.Div(factor)
}
