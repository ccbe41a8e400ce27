package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/household-sim/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "HOUSEHOLD SCENARIO SUMMARY")
	fmt.Fprintln(&buf, "================================")
	if cfg := results.Config; cfg != nil {
		fmt.Fprintf(&buf, "Ages %d/%d through %d, spending %s\n", cfg.Person1.StartAge, cfg.Person2.StartAge, cfg.EndAge, FormatWholeCurrency(cfg.AnnualSpendGoal))
	}
	fmt.Fprintln(&buf)
	for _, s := range Summaries(results) {
		fmt.Fprintf(&buf, "%s: FinalNetWorth=%s Liquid=%s Taxes=%s Conversions=%s\n",
			s.Name,
			FormatWholeCurrency(s.FinalNetWorth),
			FormatWholeCurrency(s.FinalLiquid),
			FormatWholeCurrency(s.TotalTaxes),
			FormatWholeCurrency(s.TotalConversions),
		)
		if s.DepletionYear != 0 {
			fmt.Fprintf(&buf, "  Accounts depleted in %d\n", s.DepletionYear)
		}
	}
	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s)\n", rec.ScenarioName, FormatCurrency(rec.NetWorthAdvantage), FormatPercentage(rec.PercentageChange))
	}
	return buf.Bytes(), nil
}
