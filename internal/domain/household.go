package domain

import (
	"github.com/rpgo/household-sim/pkg/money"
	"github.com/shopspring/decimal"
)

// AccountBalances holds the five investment account balances of the household.
type AccountBalances struct {
	Taxable  decimal.Decimal `json:"taxable" yaml:"taxable"`
	PretaxP1 decimal.Decimal `json:"pretax_p1" yaml:"pretax_p1"`
	PretaxP2 decimal.Decimal `json:"pretax_p2" yaml:"pretax_p2"`
	RothP1   decimal.Decimal `json:"roth_p1" yaml:"roth_p1"`
	RothP2   decimal.Decimal `json:"roth_p2" yaml:"roth_p2"`
}

// Total returns the sum of all five balances.
func (b AccountBalances) Total() decimal.Decimal {
	return b.Taxable.Add(b.PretaxP1).Add(b.PretaxP2).Add(b.RothP1).Add(b.RothP2)
}

// Clamped returns a copy with every negative balance replaced by zero.
func (b AccountBalances) Clamped() AccountBalances {
	return AccountBalances{
		Taxable:  money.NonNegative(b.Taxable),
		PretaxP1: money.NonNegative(b.PretaxP1),
		PretaxP2: money.NonNegative(b.PretaxP2),
		RothP1:   money.NonNegative(b.RothP1),
		RothP2:   money.NonNegative(b.RothP2),
	}
}

// IncomeProfile describes one person's non-portfolio income.
type IncomeProfile struct {
	EmploymentIncome   decimal.Decimal `json:"employment_income" yaml:"employment_income"`
	EmploymentUntilAge int             `json:"employment_until_age" yaml:"employment_until_age"`
	SSAmount           decimal.Decimal `json:"ss_amount" yaml:"ss_amount"`
	SSStartAge         int             `json:"ss_start_age" yaml:"ss_start_age"`
	Pension            decimal.Decimal `json:"pension" yaml:"pension"`
	PensionStartAge    int             `json:"pension_start_age" yaml:"pension_start_age"`
}

// Person is a household member: starting age plus income profile.
type Person struct {
	StartAge int           `json:"start_age" yaml:"start_age"`
	Income   IncomeProfile `json:"income" yaml:"income"`
}

// LoanTerms are the inputs of a fixed-rate amortizing loan.
// AnnualRate is a fraction (0.065 for 6.5%).
type LoanTerms struct {
	Principal  decimal.Decimal `json:"principal" yaml:"principal"`
	AnnualRate decimal.Decimal `json:"annual_rate" yaml:"annual_rate"`
	Years      decimal.Decimal `json:"years" yaml:"years"`
}

// HasLoan reports whether the terms describe a loan that needs servicing.
func (lt *LoanTerms) HasLoan() bool {
	return lt != nil && lt.Principal.IsPositive() && lt.Years.IsPositive()
}

// PrimaryHome is the household residence.
type PrimaryHome struct {
	Value      decimal.Decimal `json:"value" yaml:"value"`
	GrowthRate decimal.Decimal `json:"growth_rate" yaml:"growth_rate"`
	Mortgage   *LoanTerms      `json:"mortgage,omitempty" yaml:"mortgage,omitempty"`
}

// RentalAsset is an income-producing property. A zero Income means rent is
// derived from the property value each year.
type RentalAsset struct {
	ID               int             `json:"id" yaml:"id"`
	Value            decimal.Decimal `json:"value" yaml:"value"`
	Income           decimal.Decimal `json:"income" yaml:"income"`
	GrowthRate       decimal.Decimal `json:"growth_rate" yaml:"growth_rate"`
	IncomeGrowthRate decimal.Decimal `json:"income_growth_rate" yaml:"income_growth_rate"`
	Mortgage         *LoanTerms      `json:"mortgage,omitempty" yaml:"mortgage,omitempty"`
}

// SimulationConfig is the validated, typed input of one simulation. It is
// assembled once by the config layer and never mutated by the engine.
type SimulationConfig struct {
	StartYear int    `json:"start_year" yaml:"start_year"`
	Person1   Person `json:"person1" yaml:"person1"`
	Person2   Person `json:"person2" yaml:"person2"`
	EndAge    int    `json:"end_simulation_age" yaml:"end_simulation_age"`

	InflationRate        decimal.Decimal `json:"inflation_rate" yaml:"inflation_rate"`
	AnnualSpendGoal      decimal.Decimal `json:"annual_spend_goal" yaml:"annual_spend_goal"`
	PreviousYearTaxes    decimal.Decimal `json:"previous_year_taxes" yaml:"previous_year_taxes"`
	TargetTaxBracketRate decimal.Decimal `json:"target_tax_bracket_rate" yaml:"target_tax_bracket_rate"`
	TaxableBasisRatio    decimal.Decimal `json:"taxable_basis_ratio" yaml:"taxable_basis_ratio"`

	Balances    AccountBalances `json:"balances" yaml:"balances"`
	GrowthRates AccountBalances `json:"growth_rates" yaml:"growth_rates"`

	PrimaryHome PrimaryHome   `json:"primary_home" yaml:"primary_home"`
	Rentals     []RentalAsset `json:"rentals" yaml:"rentals"`
}

// Years returns the number of simulated years (inclusive of the end age).
func (c *SimulationConfig) Years() int {
	n := c.EndAge - c.Person1.StartAge + 1
	if n < 0 {
		return 0
	}
	return n
}
