package output

import (
	"github.com/rpgo/household-sim/internal/domain"
	"github.com/shopspring/decimal"
)

func rec(year, age int, netWorth, taxable, taxes, conv int64) domain.YearRecord {
	return domain.YearRecord{
		Year:           year,
		P1Age:          age,
		P2Age:          age - 4,
		TotalIncome:    decimal.NewFromInt(50000),
		SpendGoal:      decimal.NewFromInt(100000),
		CashNeed:       decimal.NewFromInt(100000),
		WDTaxable:      decimal.NewFromInt(50000),
		RothConversion: decimal.NewFromInt(conv),
		TaxBill:        decimal.NewFromInt(taxes),
		TaxesPaid:      decimal.NewFromInt(taxes),
		BalTaxable:     decimal.NewFromInt(taxable),
		BalRothP1:      decimal.NewFromInt(netWorth - taxable),
		NetWorth:       decimal.NewFromInt(netWorth),
		MarketReturn:   decimal.NewFromFloat(6.5),
	}
}

func buildTestComparison() *domain.ScenarioComparison {
	return &domain.ScenarioComparison{
		Config: &domain.SimulationConfig{
			StartYear:            2025,
			Person1:              domain.Person{StartAge: 65},
			Person2:              domain.Person{StartAge: 61},
			EndAge:               66,
			InflationRate:        decimal.NewFromFloat(0.03),
			AnnualSpendGoal:      decimal.NewFromInt(100000),
			TargetTaxBracketRate: decimal.NewFromFloat(0.24),
			TaxableBasisRatio:    decimal.NewFromFloat(0.5),
		},
		Scenarios: []domain.Scenario{
			{Name: "Standard (Pre-tax First)", Strategy: "standard", Records: domain.RunResult{
				rec(2026, 65, 1000000, 400000, 20000, 50000),
				rec(2027, 66, 1100000, 300000, 25000, 50000),
			}},
			{Name: "Taxable First", Strategy: "taxable_first", Records: domain.RunResult{
				rec(2026, 65, 1000000, 350000, 15000, 0),
				rec(2027, 66, 1000000, 0, 10000, 0),
			}},
		},
	}
}
