package output

import (
	"testing"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeScenarios_SelectsHighestFinalNetWorth(t *testing.T) {
	rec := AnalyzeScenarios(buildTestComparison())
	assert.Equal(t, "Standard (Pre-tax First)", rec.ScenarioName)
	assert.Equal(t, "standard", rec.Strategy)
	assert.True(t, rec.FinalNetWorth.Equal(decimal.NewFromInt(1100000)))
	assert.True(t, rec.NetWorthAdvantage.Equal(decimal.NewFromInt(100000)))
	assert.True(t, rec.PercentageChange.Equal(decimal.NewFromInt(10)))
}

func TestAnalyzeScenarios_Empty(t *testing.T) {
	assert.Equal(t, Recommendation{}, AnalyzeScenarios(nil))
	assert.Equal(t, Recommendation{}, AnalyzeScenarios(&domain.ScenarioComparison{}))
}

func TestAnalyzeScenarios_TieKeepsFirst(t *testing.T) {
	cmp := buildTestComparison()
	cmp.Scenarios[1].Records = cmp.Scenarios[0].Records
	rec := AnalyzeScenarios(cmp)
	assert.Equal(t, "Standard (Pre-tax First)", rec.ScenarioName)
	assert.True(t, rec.NetWorthAdvantage.IsZero())
}

func TestSummarize(t *testing.T) {
	cmp := buildTestComparison()
	s := Summarize(cmp.Scenarios[1])
	assert.Equal(t, 2, s.Years)
	assert.Equal(t, 2027, s.FinalYear)
	assert.True(t, s.TotalTaxes.Equal(decimal.NewFromInt(25000)))
	assert.True(t, s.TotalWithdrawals.Equal(decimal.NewFromInt(100000)))
	assert.True(t, s.FinalTaxable.IsZero())
	assert.Equal(t, 0, s.DepletionYear, "roth balance keeps liquid net worth positive")

	depleted := domain.Scenario{Name: "x", Records: domain.RunResult{{Year: 2030}}}
	assert.Equal(t, 2030, Summarize(depleted).DepletionYear)
}

func TestSummariesSortedByName(t *testing.T) {
	s := Summaries(buildTestComparison())
	require.Len(t, s, 2)
	assert.Equal(t, "Standard (Pre-tax First)", s[0].Name)
	assert.Equal(t, "Taxable First", s[1].Name)
}

func TestGenerateAssumptions(t *testing.T) {
	got := GenerateAssumptions(buildTestComparison().Config)
	assert.Contains(t, got, "Inflation: 3.0% annually")
	assert.Contains(t, got, "Roth conversions fill the 24.0% bracket")
	assert.Subset(t, got, DefaultAssumptions)

	assert.Equal(t, DefaultAssumptions, GenerateAssumptions(nil))
}
