package output

import (
	"github.com/goccy/go-json"

	"github.com/rpgo/household-sim/internal/domain"
)

// jsonReport is the comparison plus the derived summary blocks. Decoding it
// into a domain.ScenarioComparison ignores the extra fields.
type jsonReport struct {
	*domain.ScenarioComparison
	Summaries      []ScenarioSummary `json:"summaries"`
	Recommendation Recommendation    `json:"recommendation"`
	Assumptions    []string          `json:"assumptions"`
}

// JSONFormatter writes the full ledgers with per-scenario summaries, the
// recommendation and the key assumptions as indented JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	report := jsonReport{
		ScenarioComparison: results,
		Summaries:          Summaries(results),
		Recommendation:     AnalyzeScenarios(results),
		Assumptions:        GenerateAssumptions(results.Config),
	}
	return json.MarshalIndent(report, "", "  ")
}
