package api

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/rpgo/household-sim/internal/calculation"
	"github.com/rpgo/household-sim/internal/config"
	"github.com/rpgo/household-sim/internal/domain"
)

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "healthy", "service": "retirement-planner-api"})
}

// requestContext bounds a simulation request. The fasthttp request context
// is not used as a context.Context because it is only valid inside a
// running server.
func (s *Server) requestContext() (context.Context, context.CancelFunc) {
	if s.RequestTimeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.RequestTimeout)
}

// readParameters accepts a multipart "file" CSV upload or a JSON object body.
func (s *Server) readParameters(ctx *fasthttp.RequestCtx) (config.Parameters, int, error) {
	if bytes.HasPrefix(ctx.Request.Header.ContentType(), []byte("multipart/form-data")) {
		fh, err := ctx.FormFile("file")
		if err != nil {
			return nil, fasthttp.StatusBadRequest, fmt.Errorf("no file or data provided")
		}
		if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
			return nil, fasthttp.StatusBadRequest, fmt.Errorf("invalid file format, please upload a CSV file")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fasthttp.StatusInternalServerError, fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()
		params, err := s.Parser.ParseCSV(f)
		if err != nil {
			return nil, fasthttp.StatusBadRequest, err
		}
		return params, 0, nil
	}

	body := ctx.PostBody()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fasthttp.StatusBadRequest, fmt.Errorf("no file or data provided")
	}
	params, err := s.Parser.ParseJSON(body)
	if err != nil {
		return nil, fasthttp.StatusBadRequest, err
	}
	return params, 0, nil
}

// loadConfig validates params and builds the typed configuration.
func (s *Server) loadConfig(ctx *fasthttp.RequestCtx) (config.Parameters, *domain.SimulationConfig, bool) {
	params, status, err := s.readParameters(ctx)
	if err != nil {
		writeError(ctx, status, err.Error())
		return nil, nil, false
	}
	if err := config.ValidateParameters(params); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	cfg, err := s.Parser.BuildSimulationConfig(params, s.StartYear)
	if err != nil {
		writeError(ctx, statusFor(err), err.Error())
		return nil, nil, false
	}
	return params, cfg, true
}

func (s *Server) handleRunSimulation(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	params, cfg, ok := s.loadConfig(ctx)
	if !ok {
		return
	}

	runCtx, cancel := s.requestContext()
	defer cancel()
	cmp, err := s.Engine.RunComparison(runCtx, cfg)
	if err != nil {
		s.Logger.Errorf("simulation failed: %v", err)
		writeError(ctx, statusFor(err), "Simulation failed: "+err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, simulationResponse{
		Success:   true,
		Config:    params,
		Scenarios: scenarioLedgers(cmp),
	})
}

func (s *Server) handleRunMonteCarlo(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	params, cfg, ok := s.loadConfig(ctx)
	if !ok {
		return
	}
	opts := config.MonteCarloSettings(params)

	runner := calculation.NewMonteCarloRunner(s.Engine)
	runner.SetLogger(s.Logger)
	runCtx, cancel := s.requestContext()
	defer cancel()
	result, err := runner.Run(runCtx, cfg, calculation.MonteCarloConfig{
		NumSimulations: opts.NumSimulations,
		Volatility:     opts.Volatility,
		Seed:           opts.Seed,
		Strategy:       string(calculation.StrategyStandard),
		Workers:        s.Workers,
	})
	if err != nil {
		s.Logger.Errorf("monte carlo failed: %v", err)
		writeError(ctx, statusFor(err), "Monte Carlo failed: "+err.Error())
		return
	}

	resp := monteCarloResponse{
		Success:        true,
		SuccessRate:    number(result.SuccessRate),
		Stats:          statsRows(result.Stats),
		NumSimulations: result.NumSimulations,
		Completed:      result.Completed,
		Volatility:     result.Volatility,
		Seed:           result.Seed,
		Baselines:      make(map[string]ledger, len(result.Baselines)),
	}
	for _, run := range result.Runs {
		resp.AllRuns = append(resp.AllRuns, monteCarloRun{RunID: run.RunID, FinalNW: number(run.FinalNetWorth), Data: ledgerRows(run.Records)})
	}
	for name, records := range result.Baselines {
		resp.Baselines[name] = ledger{Results: ledgerRows(records), Columns: domain.LedgerColumns}
	}
	if s.Archive != nil {
		id, err := s.Archive.SaveBatch("api", result)
		if err != nil {
			s.Logger.Warnf("failed to archive batch: %v", err)
		} else {
			resp.BatchID = id
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

type sampleRow struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
}

func (s *Server) handleSampleConfig(ctx *fasthttp.RequestCtx) {
	example := config.CreateExampleParameters()
	rows := make([]sampleRow, 0, len(example))
	for _, key := range example.Keys() {
		rows = append(rows, sampleRow{Parameter: key, Value: example[key]})
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"success": true, "config": rows})
}

func (s *Server) handleDownloadTemplate(ctx *fasthttp.RequestCtx) {
	body, err := config.EncodeCSV(config.CreateExampleParameters())
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("text/csv")
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="retirement_planner_template.csv"`)
	ctx.SetBody(body)
}
