package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/rpgo/household-sim/internal/calculation"
	"github.com/rpgo/household-sim/internal/domain"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 15.0
)

// MonteCarloPDFReport renders a Monte Carlo batch, and optionally the
// deterministic comparison it was run against, as a PDF document.
type MonteCarloPDFReport struct {
	Result     *calculation.MonteCarloResult
	Comparison *domain.ScenarioComparison

	pdf *fpdf.Fpdf
}

// Write renders the report to w.
func (r *MonteCarloPDFReport) Write(w io.Writer) error {
	if r.Result == nil {
		return fmt.Errorf("no Monte Carlo result to report")
	}
	r.pdf = fpdf.New("P", "mm", "A4", "")
	r.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	r.pdf.SetAutoPageBreak(true, pdfMarginBottom)

	r.addSummaryPage()
	r.addPercentileTable()
	if r.Comparison != nil {
		r.addComparisonPage()
	}

	if err := r.pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	return r.pdf.Output(w)
}

// WriteFile renders the report to outputPath.
func (r *MonteCarloPDFReport) WriteFile(outputPath string) error {
	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}
	return nil
}

func (r *MonteCarloPDFReport) contentWidth() float64 {
	w, _ := r.pdf.GetPageSize()
	return w - pdfMarginLeft - pdfMarginRight
}

func (r *MonteCarloPDFReport) heading(text string) {
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(r.contentWidth(), 9, text, "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
}

func (r *MonteCarloPDFReport) addSummaryPage() {
	res := r.Result
	width := r.contentWidth()
	r.pdf.AddPage()
	r.pdf.SetFont("Arial", "B", 22)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(width, 12, "Monte Carlo Retirement Analysis", "", 1, "C", false, 0, "")
	r.pdf.Ln(4)

	r.heading("Summary")
	finals := calculation.NewPercentileSet(res.FinalNetWorths())
	rows := [][2]string{
		{"Success rate", res.SuccessRate.StringFixed(2) + "%"},
		{"Runs completed", fmt.Sprintf("%d of %d", res.Completed, res.NumSimulations)},
		{"Volatility", strconv.FormatFloat(res.Volatility*100, 'f', 1, 64) + "%"},
		{"Strategy", res.Strategy},
		{"Seed", strconv.FormatInt(res.Seed, 10)},
		{"Median final net worth", FormatWholeCurrency(finals.Median)},
		{"10th percentile final net worth", FormatWholeCurrency(finals.P10)},
		{"90th percentile final net worth", FormatWholeCurrency(finals.P90)},
	}
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)
	for i, row := range rows {
		fill := i%2 == 0
		r.pdf.CellFormat(width*0.6, 7, row[0], "1", 0, "L", fill, 0, "")
		r.pdf.CellFormat(width*0.4, 7, row[1], "1", 1, "R", fill, 0, "")
	}
	r.pdf.Ln(6)

	if png, err := RenderFanChart(res); err == nil {
		r.image("fan", png, width)
	}
}

func (r *MonteCarloPDFReport) image(name string, png []byte, width float64) {
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	r.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	r.pdf.ImageOptions(name, pdfMarginLeft, r.pdf.GetY(), width, 0, true, opts, 0, "")
	r.pdf.Ln(4)
}

func (r *MonteCarloPDFReport) addPercentileTable() {
	r.pdf.AddPage()
	r.heading("Net Worth Percentiles by Year")
	cols := []string{"Year", "Age", "P10", "P25", "Median", "P75", "P90"}
	widths := []float64{16, 14, 30, 30, 30, 30, 30}

	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(220, 230, 240)
	for i, c := range cols {
		r.pdf.CellFormat(widths[i], 7, c, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 8)
	for _, st := range r.Result.Stats {
		nw := st.NetWorth
		cells := []string{
			intToString(st.Year), intToString(st.P1Age),
			FormatWholeCurrency(nw.P10), FormatWholeCurrency(nw.P25), FormatWholeCurrency(nw.Median),
			FormatWholeCurrency(nw.P75), FormatWholeCurrency(nw.P90),
		}
		for i, c := range cells {
			align := "R"
			if i < 2 {
				align = "C"
			}
			r.pdf.CellFormat(widths[i], 6, c, "1", 0, align, false, 0, "")
		}
		r.pdf.Ln(-1)
	}
}

func (r *MonteCarloPDFReport) addComparisonPage() {
	width := r.contentWidth()
	r.pdf.AddPage()
	r.heading("Deterministic Strategy Comparison")
	for _, s := range Summaries(r.Comparison) {
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.CellFormat(width, 7, s.Name, "B", 1, "L", false, 0, "")
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.CellFormat(width*0.6, 6, "Final net worth", "", 0, "L", false, 0, "")
		r.pdf.CellFormat(width*0.4, 6, FormatWholeCurrency(s.FinalNetWorth), "", 1, "R", false, 0, "")
		r.pdf.CellFormat(width*0.6, 6, "Total taxes paid", "", 0, "L", false, 0, "")
		r.pdf.CellFormat(width*0.4, 6, FormatWholeCurrency(s.TotalTaxes), "", 1, "R", false, 0, "")
		r.pdf.CellFormat(width*0.6, 6, "Total Roth conversions", "", 0, "L", false, 0, "")
		r.pdf.CellFormat(width*0.4, 6, FormatWholeCurrency(s.TotalConversions), "", 1, "R", false, 0, "")
		r.pdf.Ln(3)
	}
	if rec := AnalyzeScenarios(r.Comparison); rec.ScenarioName != "" {
		r.pdf.SetFont("Arial", "I", 10)
		r.pdf.MultiCell(width, 5, fmt.Sprintf("Highest final net worth: %s, ahead by %s.", rec.ScenarioName, FormatWholeCurrency(rec.NetWorthAdvantage)), "", "L", false)
		r.pdf.Ln(3)
	}
	if png, err := RenderComparisonChart(r.Comparison); err == nil {
		r.image("comparison", png, width)
	}
}
