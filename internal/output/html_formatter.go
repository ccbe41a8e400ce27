package output

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"html/template"

	"github.com/goccy/go-json"

	"github.com/rpgo/household-sim/internal/domain"
)

// HTMLFormatter produces a self-contained HTML report with the comparison
// chart inlined as a PNG data URI.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatWholeCurrency,
	"pct":  FormatPercentage,
	"add":  func(i, j int) int { return i + j },
	"ages": func(r domain.YearRecord) string { return intToString(r.P1Age) + "/" + intToString(r.P2Age) },
	"wd":   func(r domain.YearRecord) string { return FormatWholeCurrency(r.TotalWithdrawals()) },
	"liq":  func(r domain.YearRecord) string { return FormatWholeCurrency(r.LiquidNetWorth()) },
	"json": jsonJS,
}).Parse(htmlTemplateSource))

// jsonJS embeds v in a script block.
func jsonJS(v interface{}) template.JS {
	b, _ := json.Marshal(v)
	return template.JS(b)
}

func (h HTMLFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	var chart template.URL
	if png, err := RenderComparisonChart(results); err == nil {
		chart = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	data := struct {
		*domain.ScenarioComparison
		Summaries      []ScenarioSummary
		Recommendation Recommendation
		Assumptions    []string
		Chart          template.URL
	}{results, Summaries(results), AnalyzeScenarios(results), GenerateAssumptions(results.Config), chart}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
