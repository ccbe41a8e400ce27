package output

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/household-sim/internal/calculation"
)

// MonteCarloHTMLReport renders a Monte Carlo batch as an interactive HTML
// page with percentile bands drawn by Chart.js.
type MonteCarloHTMLReport struct {
	Result *calculation.MonteCarloResult
}

//go:embed templates/montecarlo.html.tmpl
var monteCarloTemplateSource string

var monteCarloTemplate = template.Must(template.New("montecarlo").Funcs(template.FuncMap{
	"curr": FormatWholeCurrency,
	"pct":  FormatPercentage,
	"json": jsonJS,
}).Parse(monteCarloTemplateSource))

// monteCarloSeries is the year-by-year data the page's charts plot.
type monteCarloSeries struct {
	Years         []int     `json:"years"`
	P10           []float64 `json:"p10"`
	P25           []float64 `json:"p25"`
	Median        []float64 `json:"median"`
	P75           []float64 `json:"p75"`
	P90           []float64 `json:"p90"`
	RothMedian    []float64 `json:"roth"`
	PretaxMedian  []float64 `json:"pretax"`
	TaxableMedian []float64 `json:"taxable"`
}

type percentileRow struct {
	Label          string
	Value          decimal.Decimal
	Interpretation string
}

// Write renders the report to w.
func (m *MonteCarloHTMLReport) Write(w io.Writer) error {
	if m.Result == nil {
		return fmt.Errorf("no Monte Carlo result to report")
	}
	res := m.Result
	finals := calculation.NewPercentileSet(res.FinalNetWorths())

	var chart template.URL
	if png, err := RenderFanChart(res); err == nil {
		chart = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	data := struct {
		*calculation.MonteCarloResult
		StrategyName      string
		RateClass         string
		RiskLevel         string
		PrimaryConcerns   string
		MarketSensitivity string
		Recommendations   []string
		Finals            calculation.PercentileSet
		FinalRows         []percentileRow
		Series            monteCarloSeries
		Chart             template.URL
		Generated         string
	}{
		MonteCarloResult:  res,
		StrategyName:      calculation.ScenarioName(calculation.StrategyKind(res.Strategy)),
		RateClass:         m.successRateClass(),
		RiskLevel:         m.riskLevel(),
		PrimaryConcerns:   m.primaryConcerns(),
		MarketSensitivity: marketSensitivity(finals),
		Recommendations:   m.recommendations(),
		Finals:            finals,
		FinalRows: []percentileRow{
			{"10th", finals.P10, "Worst 10% of scenarios"},
			{"25th", finals.P25, "Below-average markets"},
			{"50th (Median)", finals.Median, "Typical outcome"},
			{"75th", finals.P75, "Above-average markets"},
			{"90th", finals.P90, "Best 10% of scenarios"},
		},
		Series:    m.timeSeries(),
		Chart:     chart,
		Generated: time.Now().Format("January 2, 2006 at 3:04 PM"),
	}

	var buf bytes.Buffer
	if err := monteCarloTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile renders the report to outputPath, creating its directory.
func (m *MonteCarloHTMLReport) WriteFile(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}
	return nil
}

func (m *MonteCarloHTMLReport) successRateClass() string {
	rate := m.Result.SuccessRate.InexactFloat64()
	if rate >= 90 {
		return "success"
	} else if rate >= 70 {
		return "warning"
	}
	return "danger"
}

func (m *MonteCarloHTMLReport) riskLevel() string {
	switch m.successRateClass() {
	case "success":
		return "Low"
	case "warning":
		return "Moderate"
	}
	return "High"
}

func (m *MonteCarloHTMLReport) primaryConcerns() string {
	switch m.successRateClass() {
	case "success":
		return "Minimal concerns. The plan keeps a positive net worth in nearly every market path."
	case "warning":
		return "Market volatility could deplete savings before the end of the plan."
	}
	return "Significant risk of running out of money. The plan needs changes."
}

// marketSensitivity uses the P10-P90 spread of final net worth relative to
// the median as a proxy for how much the outcome depends on markets.
func marketSensitivity(finals calculation.PercentileSet) string {
	if !finals.Median.IsPositive() {
		return "Unable to determine"
	}
	spread := finals.P90.Sub(finals.P10).Div(finals.Median).InexactFloat64()
	if spread < 0.5 {
		return "Low - outcomes are stable across market conditions"
	} else if spread < 1.0 {
		return "Moderate - outcomes vary with market performance"
	}
	return "High - outcomes are highly sensitive to market conditions"
}

func (m *MonteCarloHTMLReport) recommendations() []string {
	rate := m.Result.SuccessRate.InexactFloat64()
	var recs []string
	if rate < 90 {
		recs = append(recs,
			"Consider reducing annual spending or the spending growth rate",
			"Compare withdrawal strategies to see which lasts longer")
	}
	if rate < 70 {
		recs = append(recs,
			"Consider delaying retirement or Social Security to raise guaranteed income",
			"Revisit the assumed market return and the Roth conversion target bracket",
			"Consult with a financial advisor for personalized planning")
	}
	if len(recs) == 0 {
		recs = append(recs,
			"Maintain current retirement strategy",
			"Regularly review and adjust plan as circumstances change")
	}
	return recs
}

func (m *MonteCarloHTMLReport) timeSeries() monteCarloSeries {
	n := len(m.Result.Stats)
	s := monteCarloSeries{
		Years:         make([]int, 0, n),
		P10:           make([]float64, 0, n),
		P25:           make([]float64, 0, n),
		Median:        make([]float64, 0, n),
		P75:           make([]float64, 0, n),
		P90:           make([]float64, 0, n),
		RothMedian:    make([]float64, 0, n),
		PretaxMedian:  make([]float64, 0, n),
		TaxableMedian: make([]float64, 0, n),
	}
	dollars := func(d decimal.Decimal) float64 { return d.Round(0).InexactFloat64() }
	for _, st := range m.Result.Stats {
		s.Years = append(s.Years, st.Year)
		s.P10 = append(s.P10, dollars(st.NetWorth.P10))
		s.P25 = append(s.P25, dollars(st.NetWorth.P25))
		s.Median = append(s.Median, dollars(st.NetWorth.Median))
		s.P75 = append(s.P75, dollars(st.NetWorth.P75))
		s.P90 = append(s.P90, dollars(st.NetWorth.P90))
		s.RothMedian = append(s.RothMedian, dollars(st.Roth.Median))
		s.PretaxMedian = append(s.PretaxMedian, dollars(st.Pretax.Median))
		s.TaxableMedian = append(s.TaxableMedian, dollars(st.Taxable.Median))
	}
	return s
}
