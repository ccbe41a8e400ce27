package calculation

import (
	"testing"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loan(principal, rate, years string) domain.LoanTerms {
	return domain.LoanTerms{Principal: d(principal), AnnualRate: d(rate), Years: d(years)}
}

func TestMortgageLevelPayment(t *testing.T) {
	m := NewMortgage("home", loan("200000", "0.06", "30"))
	assert.Equal(t, 360, m.MonthsRemaining)
	assert.True(t, m.MonthlyPayment.Round(2).Equal(d("1199.10")), "got %s", m.MonthlyPayment)
	assert.True(t, m.AnnualPayment().Equal(m.MonthlyPayment.Mul(decimal.NewFromInt(12))))

	zero := NewMortgage("zero", loan("120000", "0", "10"))
	assert.True(t, zero.MonthlyPayment.Equal(d("1000")))
	assert.True(t, zero.Advance(12).Equal(d("12000")))
	assert.True(t, zero.Principal.Equal(d("108000")))
}

func TestMortgageFullAmortization(t *testing.T) {
	m := NewMortgage("home", loan("300000", "0.065", "30"))
	startPayment := m.MonthlyPayment

	totalPrincipal := decimal.Zero
	totalPaid := decimal.Zero
	for year := 0; year < 30; year++ {
		require.False(t, m.PaidOff(), "paid off early in year %d", year)
		totalPaid = totalPaid.Add(m.Advance(12))
		totalPrincipal = totalPrincipal.Add(m.PrincipalPaid)
	}

	assert.True(t, m.PaidOff())
	assert.True(t, m.Principal.IsZero())
	assert.Equal(t, 0, m.MonthsRemaining)
	assert.True(t, totalPrincipal.Equal(d("300000")), "principal repaid %s", totalPrincipal)

	expected, _ := startPayment.Mul(decimal.NewFromInt(360)).Float64()
	paid, _ := totalPaid.Float64()
	assert.InDelta(t, expected, paid, 1.0)

	// Advancing a paid-off loan is a no-op.
	assert.True(t, m.Advance(12).IsZero())
	assert.True(t, m.PaidThisPeriod().IsZero())
}

func TestMortgageShortTermPaysOffMidYear(t *testing.T) {
	m := NewMortgage("rental_1", loan("10000", "0.05", "0.5"))
	assert.Equal(t, 6, m.MonthsRemaining)

	paid := m.Advance(12)
	assert.True(t, m.PaidOff())
	assert.True(t, m.PrincipalPaid.Equal(d("10000")))
	assert.True(t, paid.GreaterThan(d("10000")))
	assert.True(t, m.InterestPaid.IsPositive())
}

func TestMortgageClampsInputs(t *testing.T) {
	tests := []struct {
		name  string
		terms domain.LoanTerms
	}{
		{"Negative principal", loan("-5000", "0.05", "10")},
		{"Zero term", loan("100000", "0.05", "0")},
		{"Negative term", loan("100000", "0.05", "-3")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMortgage("x", tt.terms)
			assert.True(t, m.PaidOff())
			assert.True(t, m.MonthlyPayment.IsZero())
			assert.True(t, m.Advance(12).IsZero())
		})
	}

	negRate := NewMortgage("x", loan("12000", "-0.05", "1"))
	assert.True(t, negRate.AnnualRate.IsZero())
	assert.True(t, negRate.MonthlyPayment.Equal(d("1000")))
}

func TestMortgageStatus(t *testing.T) {
	m := NewMortgage("home", loan("100000", "0.04", "15"))
	m.Advance(12)

	status := m.Status()
	assert.Equal(t, "home", status.Label)
	assert.False(t, status.PaidOff)
	assert.True(t, status.YearsRemaining.Equal(d("14")))
	assert.True(t, status.Principal.LessThan(d("100000")))
	assert.True(t, status.InterestPaid.Add(status.PrincipalPaid).Equal(m.PaidThisPeriod()))
}

func TestCompound(t *testing.T) {
	assert.True(t, compound(d("1.01"), 0).Equal(d("1")))
	assert.True(t, compound(d("1.01"), 1).Equal(d("1.01")))
	assert.True(t, compound(d("1.01"), 12).Round(6).Equal(d("1.126825")))
	assert.True(t, compound(d("2"), 10).Equal(d("1024")))
}
