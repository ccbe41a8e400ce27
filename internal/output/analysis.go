package output

import (
	"sort"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/shopspring/decimal"
)

// ScenarioSummary condenses one scenario ledger into the headline figures
// shown by the summary formatters.
type ScenarioSummary struct {
	Name             string          `json:"name"`
	Strategy         string          `json:"strategy"`
	Years            int             `json:"years"`
	FinalYear        int             `json:"final_year"`
	FinalNetWorth    decimal.Decimal `json:"final_net_worth"`
	FinalLiquid      decimal.Decimal `json:"final_liquid"`
	FinalRoth        decimal.Decimal `json:"final_roth"`
	FinalPretax      decimal.Decimal `json:"final_pretax"`
	FinalTaxable     decimal.Decimal `json:"final_taxable"`
	TotalTaxes       decimal.Decimal `json:"total_taxes"`
	TotalConversions decimal.Decimal `json:"total_conversions"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	// DepletionYear is the first year the investment accounts are exhausted,
	// 0 when they never are.
	DepletionYear int `json:"depletion_year"`
}

// Summarize computes the summary of one scenario.
func Summarize(sc domain.Scenario) ScenarioSummary {
	s := ScenarioSummary{Name: sc.Name, Strategy: sc.Strategy, Years: len(sc.Records)}
	for _, r := range sc.Records {
		s.TotalTaxes = s.TotalTaxes.Add(r.TaxesPaid)
		s.TotalConversions = s.TotalConversions.Add(r.RothConversion)
		s.TotalWithdrawals = s.TotalWithdrawals.Add(r.TotalWithdrawals())
		if s.DepletionYear == 0 && r.LiquidNetWorth().IsZero() {
			s.DepletionYear = r.Year
		}
	}
	if last, ok := sc.Records.Final(); ok {
		s.FinalYear = last.Year
		s.FinalNetWorth = last.NetWorth
		s.FinalLiquid = last.LiquidNetWorth()
		s.FinalRoth = last.RothTotal()
		s.FinalPretax = last.PretaxTotal()
		s.FinalTaxable = last.BalTaxable
	}
	return s
}

// Summaries returns the summary of every scenario sorted by name.
func Summaries(results *domain.ScenarioComparison) []ScenarioSummary {
	out := make([]ScenarioSummary, 0, len(results.Scenarios))
	for _, sc := range results.Scenarios {
		out = append(out, Summarize(sc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName      string          `json:"scenario_name"`
	Strategy          string          `json:"strategy"`
	FinalNetWorth     decimal.Decimal `json:"final_net_worth"`
	NetWorthAdvantage decimal.Decimal `json:"net_worth_advantage"`
	PercentageChange  decimal.Decimal `json:"percentage_change"`
}

// AnalyzeScenarios picks the scenario with the highest final net worth and
// reports its advantage over the runner-up. Ties keep the first scenario in
// comparison order.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	if results == nil || len(results.Scenarios) == 0 {
		return Recommendation{}
	}
	type ranked struct {
		name, strategy string
		worth          decimal.Decimal
	}
	ranks := make([]ranked, 0, len(results.Scenarios))
	for _, sc := range results.Scenarios {
		ranks = append(ranks, ranked{sc.Name, sc.Strategy, sc.Records.FinalNetWorth()})
	}
	sort.SliceStable(ranks, func(i, j int) bool { return ranks[i].worth.GreaterThan(ranks[j].worth) })

	best := ranks[0]
	rec := Recommendation{ScenarioName: best.name, Strategy: best.strategy, FinalNetWorth: best.worth}
	if len(ranks) > 1 {
		runnerUp := ranks[1].worth
		rec.NetWorthAdvantage = best.worth.Sub(runnerUp)
		if !runnerUp.IsZero() {
			rec.PercentageChange = rec.NetWorthAdvantage.Div(runnerUp).Mul(decimal.NewFromInt(100))
		}
	}
	return rec
}
