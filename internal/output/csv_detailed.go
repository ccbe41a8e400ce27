package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/household-sim/internal/domain"
)

// CSVDetailedExporter writes the full annual ledger of every scenario, one
// row per scenario/year in domain.LedgerColumns order.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := append([]string{"Scenario"}, domain.LedgerColumns...)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		for _, yr := range sc.Records {
			if err := w.Write(append([]string{sc.Strategy}, yr.LedgerRow()...)); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
