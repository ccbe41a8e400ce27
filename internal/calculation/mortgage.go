package calculation

import (
	"github.com/rpgo/household-sim/internal/domain"
	"github.com/rpgo/household-sim/pkg/money"
	"github.com/shopspring/decimal"
)

// compoundPrecision bounds the digits kept while raising (1+r) to a power.
const compoundPrecision = 24

// Mortgage tracks amortization of one fixed-rate loan. It moves from active
// (principal > 0) to paid off, and stays paid off.
type Mortgage struct {
	Label             string
	OriginalPrincipal decimal.Decimal
	Principal         decimal.Decimal
	AnnualRate        decimal.Decimal
	MonthsRemaining   int
	MonthlyPayment    decimal.Decimal

	// Amounts paid during the most recent Advance call.
	InterestPaid  decimal.Decimal
	PrincipalPaid decimal.Decimal
}

// MortgageStatus is a read-only snapshot of a mortgage.
type MortgageStatus struct {
	Label          string          `json:"label"`
	Principal      decimal.Decimal `json:"principal_remaining"`
	InterestPaid   decimal.Decimal `json:"interest_paid_this_year"`
	PrincipalPaid  decimal.Decimal `json:"principal_paid_this_year"`
	AnnualPayment  decimal.Decimal `json:"annual_payment"`
	YearsRemaining decimal.Decimal `json:"years_remaining"`
	PaidOff        bool            `json:"paid_off"`
}

// NewMortgage creates a mortgage from loan terms. Negative principal, rate or
// term are clamped to zero; a zero principal or term yields a paid-off loan.
func NewMortgage(label string, terms domain.LoanTerms) *Mortgage {
	principal := money.NonNegative(terms.Principal)
	years := money.NonNegative(terms.Years)
	m := &Mortgage{
		Label:             label,
		OriginalPrincipal: principal,
		Principal:         principal,
		AnnualRate:        money.NonNegative(terms.AnnualRate),
		MonthsRemaining:   int(years.Mul(money.Monthly12).IntPart()),
		InterestPaid:      decimal.Zero,
		PrincipalPaid:     decimal.Zero,
	}
	if m.MonthsRemaining == 0 {
		m.Principal = decimal.Zero
	}
	m.recalculatePayment()
	return m
}

// recalculatePayment sets the level monthly payment that retires the
// remaining principal over the remaining months.
func (m *Mortgage) recalculatePayment() {
	if !m.Principal.IsPositive() || m.MonthsRemaining <= 0 {
		m.MonthlyPayment = decimal.Zero
		return
	}

	monthlyRate := m.AnnualRate.Div(money.Monthly12)
	if monthlyRate.IsZero() {
		m.MonthlyPayment = m.Principal.Div(decimal.NewFromInt(int64(m.MonthsRemaining)))
		return
	}

	// P * r(1+r)^n / ((1+r)^n - 1)
	growth := compound(decimal.NewFromInt(1).Add(monthlyRate), m.MonthsRemaining)
	m.MonthlyPayment = m.Principal.Mul(monthlyRate.Mul(growth)).Div(growth.Sub(decimal.NewFromInt(1)))
}

// Advance processes up to months monthly payments and returns the total
// amount paid. Payments stop as soon as the loan is paid off, so advancing a
// paid-off loan does nothing.
func (m *Mortgage) Advance(months int) decimal.Decimal {
	m.InterestPaid = decimal.Zero
	m.PrincipalPaid = decimal.Zero
	if months <= 0 {
		return decimal.Zero
	}

	monthlyRate := m.AnnualRate.Div(money.Monthly12)
	for i := 0; i < months; i++ {
		if !m.Principal.IsPositive() || !m.MonthlyPayment.IsPositive() {
			break
		}

		interest := m.Principal.Mul(monthlyRate).Round(compoundPrecision)
		principalPayment := m.MonthlyPayment.Sub(interest)
		switch {
		case principalPayment.GreaterThan(m.Principal):
			principalPayment = m.Principal
			interest = m.MonthlyPayment.Sub(principalPayment)
		case i >= m.MonthsRemaining-1:
			// Final scheduled payment retires any rounding residual.
			principalPayment = m.Principal
		}

		m.Principal = money.NonNegative(m.Principal.Sub(principalPayment))
		m.InterestPaid = m.InterestPaid.Add(interest)
		m.PrincipalPaid = m.PrincipalPaid.Add(principalPayment)
	}

	if m.Principal.IsPositive() {
		m.MonthsRemaining -= months
		if m.MonthsRemaining < 0 {
			m.MonthsRemaining = 0
		}
		if m.MonthsRemaining > 0 {
			m.recalculatePayment()
		}
	} else {
		m.Principal = decimal.Zero
		m.MonthsRemaining = 0
		m.MonthlyPayment = decimal.Zero
	}

	return m.PaidThisPeriod()
}

// PaidThisPeriod is interest plus principal paid by the last Advance call.
func (m *Mortgage) PaidThisPeriod() decimal.Decimal {
	return m.InterestPaid.Add(m.PrincipalPaid)
}

// AnnualPayment is twelve times the current level monthly payment.
func (m *Mortgage) AnnualPayment() decimal.Decimal {
	return money.Annual(m.MonthlyPayment)
}

// PaidOff reports whether the principal has been retired.
func (m *Mortgage) PaidOff() bool {
	return !m.Principal.IsPositive()
}

// Status returns a snapshot of the loan.
func (m *Mortgage) Status() MortgageStatus {
	return MortgageStatus{
		Label:          m.Label,
		Principal:      m.Principal,
		InterestPaid:   m.InterestPaid,
		PrincipalPaid:  m.PrincipalPaid,
		AnnualPayment:  m.AnnualPayment(),
		YearsRemaining: decimal.NewFromInt(int64(m.MonthsRemaining)).Div(money.Monthly12),
		PaidOff:        m.PaidOff(),
	}
}

// compound raises base to a non-negative integer power by squaring,
// rounding intermediate products to compoundPrecision places.
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(compoundPrecision)
		}
		base = base.Mul(base).Round(compoundPrecision)
		n >>= 1
	}
	return result
}
