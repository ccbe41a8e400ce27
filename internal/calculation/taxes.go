package calculation

import (
	"github.com/rpgo/household-sim/pkg/money"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal brackets are the 2024 married-filing-jointly schedule. Every
//    bracket boundary and the standard deduction are multiplied by the
//    simulation's cumulative inflation index, so the schedule is indexed
//    forward from the base year.
//
// 2. Long-term capital gains are stacked on top of ordinary taxable income
//    and taxed with their own bracket table.
//
// 3. No state or local tax, no FICA, no senior deduction.

// TaxBracket is one marginal bracket. Max is the inclusive upper boundary of
// taxable income taxed at Rate; the lower boundary is the previous bracket's Max.
type TaxBracket struct {
	Max  decimal.Decimal
	Rate decimal.Decimal
}

var (
	ordinaryBrackets2024 = []TaxBracket{
		{decimal.NewFromInt(24800), decimal.RequireFromString("0.10")},
		{decimal.NewFromInt(100800), decimal.RequireFromString("0.12")},
		{decimal.NewFromInt(211400), decimal.RequireFromString("0.22")},
		{decimal.NewFromInt(403550), decimal.RequireFromString("0.24")},
		{decimal.NewFromInt(512450), decimal.RequireFromString("0.32")},
		{decimal.NewFromInt(768700), decimal.RequireFromString("0.35")},
		{decimal.NewFromInt(10000000), decimal.RequireFromString("0.37")},
	}

	capitalGainsBrackets2024 = []TaxBracket{
		{decimal.NewFromInt(96700), decimal.Zero},
		{decimal.NewFromInt(600050), decimal.RequireFromString("0.15")},
		{decimal.NewFromInt(10000000), decimal.RequireFromString("0.20")},
	}

	standardDeduction2024 = decimal.NewFromInt(32200)
)

// OrdinaryBrackets returns a copy of the base-year ordinary income schedule.
func OrdinaryBrackets() []TaxBracket {
	return append([]TaxBracket(nil), ordinaryBrackets2024...)
}

// CapitalGainsBrackets returns a copy of the base-year long-term capital gains schedule.
func CapitalGainsBrackets() []TaxBracket {
	return append([]TaxBracket(nil), capitalGainsBrackets2024...)
}

// StandardDeduction returns the base-year standard deduction.
func StandardDeduction() decimal.Decimal { return standardDeduction2024 }

// TaxCalculator computes federal income tax on ordinary income plus
// long-term capital gains. It only reads the package's static tables and is
// safe for concurrent use.
type TaxCalculator struct {
	Ordinary          []TaxBracket
	CapitalGains      []TaxBracket
	StandardDeduction decimal.Decimal
}

// NewTaxCalculator creates a calculator over the 2024 MFJ schedule.
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{
		Ordinary:          ordinaryBrackets2024,
		CapitalGains:      capitalGainsBrackets2024,
		StandardDeduction: standardDeduction2024,
	}
}

// CalculateTax returns the total tax on ordinary income and capital gains
// for a year whose brackets are scaled by inflationFactor.
func (tc *TaxCalculator) CalculateTax(ordinaryIncome, capitalGains, inflationFactor decimal.Decimal) decimal.Decimal {
	if ordinaryIncome.Add(capitalGains).LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	deduction := tc.StandardDeduction.Mul(inflationFactor)
	taxableOrdinary := money.NonNegative(ordinaryIncome.Sub(deduction))

	ordinaryTax := decimal.Zero
	prevLimit := decimal.Zero
	for _, bracket := range tc.Ordinary {
		limit := bracket.Max.Mul(inflationFactor)
		if taxableOrdinary.LessThanOrEqual(prevLimit) {
			break
		}
		inBracket := money.Min(taxableOrdinary, limit).Sub(prevLimit)
		ordinaryTax = ordinaryTax.Add(inBracket.Mul(bracket.Rate))
		prevLimit = limit
	}

	// Gains fill bracket space from where ordinary income stopped.
	gainsTax := decimal.Zero
	floor := taxableOrdinary
	ceiling := taxableOrdinary.Add(capitalGains)
	for _, bracket := range tc.CapitalGains {
		if floor.GreaterThanOrEqual(ceiling) {
			break
		}
		limit := bracket.Max.Mul(inflationFactor)
		if floor.GreaterThanOrEqual(limit) {
			continue
		}
		top := money.Min(ceiling, limit)
		gainsTax = gainsTax.Add(top.Sub(floor).Mul(bracket.Rate))
		floor = top
	}

	return ordinaryTax.Add(gainsTax)
}

// BracketRoom returns how much more ordinary income fits below the top of
// the bracket taxed at targetRate. See the package-level BracketRoom.
func (tc *TaxCalculator) BracketRoom(currentOrdinaryIncome, inflationFactor, targetRate decimal.Decimal) decimal.Decimal {
	return bracketRoom(tc.Ordinary, tc.StandardDeduction, currentOrdinaryIncome, inflationFactor, targetRate)
}

// BracketRoom returns the gap between taxable ordinary income and the
// inflation-scaled upper boundary of the bracket whose rate equals
// targetRate exactly. It is zero when no bracket carries that rate or when
// income already exceeds the boundary.
func BracketRoom(currentOrdinaryIncome, inflationFactor, targetRate decimal.Decimal) decimal.Decimal {
	return bracketRoom(ordinaryBrackets2024, standardDeduction2024, currentOrdinaryIncome, inflationFactor, targetRate)
}

func bracketRoom(brackets []TaxBracket, deduction, currentOrdinaryIncome, inflationFactor, targetRate decimal.Decimal) decimal.Decimal {
	taxable := money.NonNegative(currentOrdinaryIncome.Sub(deduction.Mul(inflationFactor)))

	for _, bracket := range brackets {
		if bracket.Rate.Equal(targetRate) {
			return money.NonNegative(bracket.Max.Mul(inflationFactor).Sub(taxable))
		}
	}
	return decimal.Zero
}
