package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the detailed console report: assumptions,
// a first-year breakdown and annual ledger per scenario, and a side-by-side
// comparison of the final year.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	fmt.Fprintln(&buf, "DETAILED HOUSEHOLD RETIREMENT SIMULATION")
	fmt.Fprintln(&buf, strings.Repeat("=", 96))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(results.Config) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, scenario := range results.Scenarios {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, scenario.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		if len(scenario.Records) == 0 {
			fmt.Fprintln(&buf, "  (no simulated years)")
			fmt.Fprintln(&buf)
			continue
		}
		writeFirstYear(&buf, scenario.Records[0])
		writeLedger(&buf, scenario.Records)
		fmt.Fprintln(&buf)
	}

	if len(results.Scenarios) >= 2 {
		writeFinalComparison(&buf, results.Scenarios[0], results.Scenarios[1])
	}

	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
		fmt.Fprintln(&buf, "=========================")
		fmt.Fprintf(&buf, "Best scenario: %s\n", rec.ScenarioName)
		fmt.Fprintf(&buf, "Final Net Worth: %s\n", FormatCurrency(rec.FinalNetWorth))
		fmt.Fprintf(&buf, "Advantage over next best: %s (%s)\n", FormatCurrency(rec.NetWorthAdvantage), FormatPercentage(rec.PercentageChange))
	}

	return buf.Bytes(), nil
}

func writeFirstYear(buf *bytes.Buffer, y domain.YearRecord) {
	fmt.Fprintf(buf, "FIRST YEAR (%d) CASH FLOW:\n", y.Year)
	fmt.Fprintln(buf, "----------------------------------------")
	fmt.Fprintln(buf, "INCOME SOURCES:")
	fmt.Fprintf(buf, "  Employment:             %s\n", FormatCurrency(y.EmploymentP1.Add(y.EmploymentP2)))
	fmt.Fprintf(buf, "  Social Security:        %s\n", FormatCurrency(y.SSP1.Add(y.SSP2)))
	fmt.Fprintf(buf, "  Pensions:               %s\n", FormatCurrency(y.PensionP1.Add(y.PensionP2)))
	fmt.Fprintf(buf, "  RMDs:                   %s\n", FormatCurrency(y.RMDP1.Add(y.RMDP2)))
	fmt.Fprintf(buf, "  Rental Income:          %s\n", FormatCurrency(y.RentalIncome))
	fmt.Fprintf(buf, "  TOTAL INCOME:           %s\n", FormatCurrency(y.TotalIncome))
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "CASH NEED:")
	fmt.Fprintf(buf, "  Spending Goal:          %s\n", FormatCurrency(y.SpendGoal))
	fmt.Fprintf(buf, "  Prior Year Taxes:       %s\n", FormatCurrency(y.PreviousTaxes))
	fmt.Fprintf(buf, "  TOTAL CASH NEED:        %s\n", FormatCurrency(y.CashNeed))
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "WITHDRAWALS & CONVERSIONS:")
	fmt.Fprintf(buf, "  Pre-tax:                %s\n", FormatCurrency(y.WDPretaxP1.Add(y.WDPretaxP2)))
	fmt.Fprintf(buf, "  Taxable:                %s\n", FormatCurrency(y.WDTaxable))
	fmt.Fprintf(buf, "  Roth:                   %s\n", FormatCurrency(y.WDRothP1.Add(y.WDRothP2)))
	fmt.Fprintf(buf, "  Roth Conversion:        %s\n", FormatCurrency(y.RothConversion))
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "TAXES:")
	fmt.Fprintf(buf, "  Ordinary Income:        %s\n", FormatCurrency(y.OrdinaryIncome))
	fmt.Fprintf(buf, "  Capital Gains:          %s\n", FormatCurrency(y.CapitalGains))
	fmt.Fprintf(buf, "  Tax Bill (due next yr): %s\n", FormatCurrency(y.TaxBill))
	fmt.Fprintln(buf)
}

func writeLedger(buf *bytes.Buffer, records domain.RunResult) {
	fmt.Fprintln(buf, "ANNUAL LEDGER:")
	fmt.Fprintf(buf, "%-6s %-7s %14s %14s %14s %14s %14s %14s %16s\n",
		"Year", "Ages", "Income", "Withdrawals", "Conversion", "Tax Bill", "Pre-tax", "Roth", "Net Worth")
	fmt.Fprintln(buf, strings.Repeat("-", 120))
	for _, y := range records {
		fmt.Fprintf(buf, "%-6d %-7s %14s %14s %14s %14s %14s %14s %16s\n",
			y.Year,
			fmt.Sprintf("%d/%d", y.P1Age, y.P2Age),
			FormatWholeCurrency(y.TotalIncome),
			FormatWholeCurrency(y.TotalWithdrawals()),
			FormatWholeCurrency(y.RothConversion),
			FormatWholeCurrency(y.TaxBill),
			FormatWholeCurrency(y.PretaxTotal()),
			FormatWholeCurrency(y.RothTotal()),
			FormatWholeCurrency(y.NetWorth),
		)
	}
}

func writeFinalComparison(buf *bytes.Buffer, a, b domain.Scenario) {
	sa, sb := Summarize(a), Summarize(b)
	fmt.Fprintln(buf, strings.Repeat("=", 96))
	fmt.Fprintln(buf, "FINAL YEAR COMPARISON")
	fmt.Fprintln(buf, strings.Repeat("=", 96))
	fmt.Fprintf(buf, "%-30s %20s %20s %20s\n", "COMPONENT", truncate(sa.Name, 20), truncate(sb.Name, 20), "DIFFERENCE")
	fmt.Fprintln(buf, strings.Repeat("-", 93))
	cmpLine(buf, "Pre-tax Balance", sa.FinalPretax, sb.FinalPretax)
	cmpLine(buf, "Roth Balance", sa.FinalRoth, sb.FinalRoth)
	cmpLine(buf, "Taxable Balance", sa.FinalTaxable, sb.FinalTaxable)
	cmpLine(buf, "Total Taxes Paid", sa.TotalTaxes, sb.TotalTaxes)
	cmpLine(buf, "Total Roth Conversions", sa.TotalConversions, sb.TotalConversions)
	fmt.Fprintln(buf, strings.Repeat("-", 93))
	cmpLine(buf, "NET WORTH", sa.FinalNetWorth, sb.FinalNetWorth)
	fmt.Fprintln(buf)
}

func cmpLine(buf *bytes.Buffer, label string, a, b decimal.Decimal) {
	fmt.Fprintf(buf, "%-30s %20s %20s %20s\n", label, FormatWholeCurrency(a), FormatWholeCurrency(b), FormatWholeCurrency(b.Sub(a)))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
