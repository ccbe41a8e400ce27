package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rpgo/household-sim/internal/calculation"
)

// MonteCarloCSVReport generates CSV exports for Monte Carlo results
type MonteCarloCSVReport struct {
	Result *calculation.MonteCarloResult
}

func writeCSVFile(outputPath string, header []string, rows [][]string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write data row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// GenerateSummaryCSV creates a summary CSV with aggregate statistics
func (m *MonteCarloCSVReport) GenerateSummaryCSV(outputPath string) error {
	r := m.Result
	finals := calculation.NewPercentileSet(r.FinalNetWorths())
	rows := [][]string{
		{"Success Rate", r.SuccessRate.StringFixed(2) + "%", "Percentage of runs ending with positive net worth"},
		{"Completed Simulations", strconv.Itoa(r.Completed), "Runs that finished"},
		{"Requested Simulations", strconv.Itoa(r.NumSimulations), "Runs requested"},
		{"Volatility", strconv.FormatFloat(r.Volatility, 'f', -1, 64), "Standard deviation of the yearly market perturbation"},
		{"Seed", strconv.FormatInt(r.Seed, 10), "Batch seed; run i uses seed+i"},
		{"Strategy", r.Strategy, "Withdrawal strategy"},
		{"Median Final Net Worth", "$" + finals.Median.StringFixed(0), "Median final net worth across runs"},
		{"10th Percentile Final Net Worth", "$" + finals.P10.StringFixed(0), "Worst 10% of runs"},
		{"90th Percentile Final Net Worth", "$" + finals.P90.StringFixed(0), "Best 10% of runs"},
	}
	return writeCSVFile(outputPath, []string{"Metric", "Value", "Description"}, rows)
}

// GenerateDetailedCSV creates a detailed CSV with one row per run.
func (m *MonteCarloCSVReport) GenerateDetailedCSV(outputPath string) error {
	rows := make([][]string, 0, len(m.Result.Runs))
	for _, run := range m.Result.Runs {
		var minNW, finalLiquid string
		if len(run.Records) > 0 {
			low := run.Records[0].NetWorth
			for _, rec := range run.Records {
				if rec.NetWorth.LessThan(low) {
					low = rec.NetWorth
				}
			}
			minNW = low.StringFixed(0)
			last, _ := run.Records.Final()
			finalLiquid = last.LiquidNetWorth().StringFixed(0)
		}
		rows = append(rows, []string{
			strconv.Itoa(run.RunID),
			strconv.FormatBool(run.Success),
			run.FinalNetWorth.StringFixed(0),
			finalLiquid,
			minNW,
		})
	}
	return writeCSVFile(outputPath, []string{"RunID", "Success", "FinalNetWorth", "FinalLiquid", "MinNetWorth"}, rows)
}

// GeneratePercentileCSV creates a CSV with the per-year percentile bands.
func (m *MonteCarloCSVReport) GeneratePercentileCSV(outputPath string) error {
	header := []string{"Year", "P1_Age", "NetWorth_P10", "NetWorth_P25", "NetWorth_Median", "NetWorth_P75", "NetWorth_P90", "Roth_Median", "PreTax_Median", "Taxable_Median"}
	rows := make([][]string, 0, len(m.Result.Stats))
	for _, st := range m.Result.Stats {
		rows = append(rows, []string{
			strconv.Itoa(st.Year),
			strconv.Itoa(st.P1Age),
			st.NetWorth.P10.StringFixed(2),
			st.NetWorth.P25.StringFixed(2),
			st.NetWorth.Median.StringFixed(2),
			st.NetWorth.P75.StringFixed(2),
			st.NetWorth.P90.StringFixed(2),
			st.Roth.Median.StringFixed(2),
			st.Pretax.Median.StringFixed(2),
			st.Taxable.Median.StringFixed(2),
		})
	}
	return writeCSVFile(outputPath, header, rows)
}

// GenerateAllCSVReports creates all CSV reports in a single directory and
// returns the written paths.
func (m *MonteCarloCSVReport) GenerateAllCSVReports(outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	reports := []struct {
		file string
		gen  func(string) error
	}{
		{"monte_carlo_summary.csv", m.GenerateSummaryCSV},
		{"monte_carlo_detailed.csv", m.GenerateDetailedCSV},
		{"monte_carlo_percentiles.csv", m.GeneratePercentileCSV},
	}
	paths := make([]string, 0, len(reports))
	for _, r := range reports {
		path := filepath.Join(outputDir, r.file)
		if err := r.gen(path); err != nil {
			return paths, fmt.Errorf("failed to generate %s: %w", r.file, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
