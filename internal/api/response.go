package api

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"

	"github.com/rpgo/household-sim/internal/calculation"
	"github.com/rpgo/household-sim/internal/config"
	"github.com/rpgo/household-sim/internal/domain"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ledger is a list of rows keyed by column, plus the column order.
type ledger struct {
	Results []map[string]json.Number `json:"results"`
	Columns []string                 `json:"columns"`
}

type simulationResponse struct {
	Success   bool              `json:"success"`
	Config    config.Parameters `json:"config"`
	Scenarios map[string]ledger `json:"scenarios"`
}

type monteCarloRun struct {
	RunID   int                      `json:"run_id"`
	FinalNW json.Number              `json:"final_nw"`
	Data    []map[string]json.Number `json:"data"`
}

type monteCarloResponse struct {
	Success        bool                     `json:"success"`
	SuccessRate    json.Number              `json:"success_rate"`
	Stats          []map[string]json.Number `json:"stats"`
	AllRuns        []monteCarloRun          `json:"all_runs"`
	NumSimulations int                      `json:"num_simulations"`
	Completed      int                      `json:"completed"`
	Volatility     float64                  `json:"volatility"`
	Seed           int64                    `json:"seed"`
	Baselines      map[string]ledger        `json:"baselines"`
	BatchID        int64                    `json:"batch_id,omitempty"`
}

func number(d decimal.Decimal) json.Number { return json.Number(d.String()) }

func ledgerRows(records domain.RunResult) []map[string]json.Number {
	rows := make([]map[string]json.Number, 0, len(records))
	for _, r := range records {
		row := make(map[string]json.Number, len(domain.LedgerColumns))
		for i, v := range r.LedgerValues() {
			row[domain.LedgerColumns[i]] = number(v)
		}
		rows = append(rows, row)
	}
	return rows
}

func scenarioLedgers(cmp *domain.ScenarioComparison) map[string]ledger {
	out := make(map[string]ledger, len(cmp.Scenarios))
	for _, sc := range cmp.Scenarios {
		out[sc.Strategy] = ledger{Results: ledgerRows(sc.Records), Columns: domain.LedgerColumns}
	}
	return out
}

// statsRows flattens the per-year percentiles into the column names of the
// web client: Net_Worth_median, Net_Worth_P10, Bal_Roth_Total_P90 and so on.
func statsRows(stats []calculation.YearPercentiles) []map[string]json.Number {
	rows := make([]map[string]json.Number, 0, len(stats))
	for _, st := range stats {
		row := map[string]json.Number{
			"Year":   json.Number(decimal.NewFromInt(int64(st.Year)).String()),
			"P1_Age": json.Number(decimal.NewFromInt(int64(st.P1Age)).String()),
		}
		addPercentiles(row, "Net_Worth", st.NetWorth, true)
		addPercentiles(row, "Bal_Roth_Total", st.Roth, false)
		addPercentiles(row, "Bal_PreTax_Total", st.Pretax, false)
		addPercentiles(row, "Bal_Taxable", st.Taxable, false)
		rows = append(rows, row)
	}
	return rows
}

func addPercentiles(row map[string]json.Number, prefix string, p calculation.PercentileSet, quartiles bool) {
	row[prefix+"_median"] = number(p.Median)
	row[prefix+"_P10"] = number(p.P10)
	row[prefix+"_P90"] = number(p.P90)
	if quartiles {
		row[prefix+"_P25"] = number(p.P25)
		row[prefix+"_P75"] = number(p.P75)
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "failed to encode response: "+err.Error())
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(errorResponse{Error: message})
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// statusFor maps input errors to 400 and everything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, config.ErrMissingParameter),
		errors.Is(err, config.ErrInvalidParameter),
		errors.Is(err, calculation.ErrInvalidConfig),
		errors.Is(err, calculation.ErrUnknownStrategy):
		return fasthttp.StatusBadRequest
	default:
		return fasthttp.StatusInternalServerError
	}
}
