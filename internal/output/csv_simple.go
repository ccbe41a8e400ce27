package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/household-sim/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Strategy", "Years", "FinalYear", "FinalNetWorth", "FinalLiquid", "FinalRoth", "FinalPreTax", "FinalTaxable", "TotalTaxes", "TotalConversions", "TotalWithdrawals", "DepletionYear"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range Summaries(results) {
		row := []string{
			s.Name,
			s.Strategy,
			intToString(s.Years),
			intToString(s.FinalYear),
			s.FinalNetWorth.StringFixed(2),
			s.FinalLiquid.StringFixed(2),
			s.FinalRoth.StringFixed(2),
			s.FinalPretax.StringFixed(2),
			s.FinalTaxable.StringFixed(2),
			s.TotalTaxes.StringFixed(2),
			s.TotalConversions.StringFixed(2),
			s.TotalWithdrawals.StringFixed(2),
			intToString(s.DepletionYear),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
