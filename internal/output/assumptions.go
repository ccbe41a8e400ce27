package output

import (
	"fmt"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultAssumptions lists the fixed modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Tax brackets: married filing jointly, indexed to cumulative inflation",
	"Taxes are paid in the year after they are incurred",
	"RMDs start at age 73 using the IRS Uniform Lifetime Table",
	"Social Security, pensions and employment income grow with inflation",
}

// GenerateAssumptions creates the assumptions list from the configured values
// followed by the fixed defaults.
func GenerateAssumptions(cfg *domain.SimulationConfig) []string {
	if cfg == nil {
		return DefaultAssumptions
	}
	out := []string{
		fmt.Sprintf("Inflation: %s annually", pctOf(cfg.InflationRate)),
		fmt.Sprintf("Spending goal: %s per year in today's dollars", FormatWholeCurrency(cfg.AnnualSpendGoal)),
		fmt.Sprintf("Roth conversions fill the %s bracket", pctOf(cfg.TargetTaxBracketRate)),
		fmt.Sprintf("Taxable growth: %s annually (basis ratio %s)", pctOf(cfg.GrowthRates.Taxable), cfg.TaxableBasisRatio.StringFixed(2)),
		fmt.Sprintf("Pretax growth: %s / %s, Roth growth: %s / %s",
			pctOf(cfg.GrowthRates.PretaxP1), pctOf(cfg.GrowthRates.PretaxP2),
			pctOf(cfg.GrowthRates.RothP1), pctOf(cfg.GrowthRates.RothP2)),
	}
	if len(cfg.Rentals) > 0 {
		out = append(out, fmt.Sprintf("Rental properties: %d", len(cfg.Rentals)))
	}
	return append(out, DefaultAssumptions...)
}

func pctOf(rate decimal.Decimal) string {
	return fmt.Sprintf("%.1f%%", rate.Mul(decimalHundred).InexactFloat64())
}

var decimalHundred = decimal.NewFromInt(100)
