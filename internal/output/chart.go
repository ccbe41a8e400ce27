package output

import (
	"errors"
	"fmt"

	"github.com/vicanso/go-charts/v2"

	"github.com/rpgo/household-sim/internal/calculation"
	"github.com/rpgo/household-sim/internal/domain"
)

var errNoChartData = errors.New("no data to chart")

// ChartFormatter renders the net worth of every scenario by year as a PNG line chart.
type ChartFormatter struct{}

func (c ChartFormatter) Name() string { return "chart" }

func (c ChartFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	return RenderComparisonChart(results)
}

// RenderComparisonChart draws one net worth line per scenario. The x axis
// follows the first scenario's years.
func RenderComparisonChart(results *domain.ScenarioComparison) ([]byte, error) {
	if results == nil || len(results.Scenarios) == 0 || len(results.Scenarios[0].Records) == 0 {
		return nil, errNoChartData
	}
	labels := yearLabels(results.Scenarios[0].Records)
	names := make([]string, 0, len(results.Scenarios))
	values := make([][]float64, 0, len(results.Scenarios))
	for _, sc := range results.Scenarios {
		names = append(names, sc.Name)
		series := make([]float64, len(labels))
		for i, r := range sc.Records {
			if i < len(series) {
				series[i] = r.NetWorth.InexactFloat64()
			}
		}
		values = append(values, series)
	}
	return renderLines(values, names, labels, "Net Worth by Strategy", "nominal dollars")
}

// RenderFanChart draws the P10/P25/median/P75/P90 net worth bands of a
// Monte Carlo batch.
func RenderFanChart(result *calculation.MonteCarloResult) ([]byte, error) {
	if result == nil || len(result.Stats) == 0 {
		return nil, errNoChartData
	}
	names := []string{"P10", "P25", "Median", "P75", "P90"}
	values := make([][]float64, len(names))
	labels := make([]string, len(result.Stats))
	for i, st := range result.Stats {
		labels[i] = intToString(st.Year)
		nw := st.NetWorth
		for j, v := range []float64{nw.P10.InexactFloat64(), nw.P25.InexactFloat64(), nw.Median.InexactFloat64(), nw.P75.InexactFloat64(), nw.P90.InexactFloat64()} {
			values[j] = append(values[j], v)
		}
	}
	subtitle := fmt.Sprintf("%d runs • volatility %.0f%% • success %s%%", result.Completed, result.Volatility*100, result.SuccessRate.StringFixed(1))
	return renderLines(values, names, labels, "Monte Carlo Net Worth Percentiles", subtitle)
}

func renderLines(values [][]float64, names, labels []string, title, subtitle string) ([]byte, error) {
	split := len(labels) / 10
	if split < 1 {
		split = 1
	}
	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: split,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Top: charts.PositionBottom}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

func yearLabels(records domain.RunResult) []string {
	labels := make([]string, len(records))
	for i, r := range records {
		labels[i] = intToString(r.Year)
	}
	return labels
}
