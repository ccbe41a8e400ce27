package integration

import (
	"bytes"
	"mime/multipart"
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/rpgo/household-sim/internal/api"
)

func uploadCSV(t *testing.T, srv *api.Server, uri, path string) map[string]any {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "household.csv")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod("POST")
	ctx.Request.SetRequestURI(uri)
	ctx.Request.Header.SetContentType(mw.FormDataContentType())
	ctx.Request.SetBody(body.Bytes())
	srv.Handler()(&ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	dec := json.NewDecoder(bytes.NewReader(ctx.Response.Body()))
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out))
	return out
}

func TestAPISimulationMatchesEngine(t *testing.T) {
	_, cfg, _ := loadConfig(t, csvParams)
	expected := runComparison(t, cfg)

	resp := uploadCSV(t, api.NewServer(nil), "/api/run-simulation", csvParams)
	assert.Equal(t, true, resp["success"])

	scenarios := resp["scenarios"].(map[string]any)
	for _, sc := range expected.Scenarios {
		ledger := scenarios[sc.Strategy].(map[string]any)
		rows := ledger["results"].([]any)
		require.Len(t, rows, len(sc.Records))

		last := rows[len(rows)-1].(map[string]any)
		got, err := decimal.NewFromString(last["Net_Worth"].(json.Number).String())
		require.NoError(t, err)
		assert.True(t, got.Equal(sc.Records.FinalNetWorth()), "%s: %s vs %s", sc.Strategy, got, sc.Records.FinalNetWorth())
	}
}

func TestAPIMonteCarloUsesFileSettings(t *testing.T) {
	srv := api.NewServer(nil)
	srv.Workers = 2

	first := uploadCSV(t, srv, "/api/run-monte-carlo", csvParams)
	second := uploadCSV(t, srv, "/api/run-monte-carlo", csvParams)

	assert.Equal(t, json.Number("8"), first["num_simulations"])
	assert.Equal(t, json.Number("2024"), first["seed"])
	assert.Len(t, first["all_runs"].([]any), 8)
	assert.Equal(t, first["success_rate"], second["success_rate"])
}
