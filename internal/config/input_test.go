package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func writeTemp(t *testing.T, pattern, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), pattern)
	require.NoError(t, err)
	_, err = tmpfile.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
	parser.SetLogger(nil)
	assert.NotNil(t, parser.logger)
}

func TestParseCSV(t *testing.T) {
	csvData := "parameter,value,notes\n" +
		"p1_start_age,65,years\n" +
		"inflation_rate,0.03\n" +
		"annual_spend_goal, 200000\n" +
		"filing_status,MFJ\n" +
		"previous_year_taxes,\n" +
		"\n" +
		"bal_taxable,700000.50\n"

	params, err := NewInputParser().ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 65.0, params.Get("p1_start_age"))
	assert.Equal(t, 0.03, params.Get("inflation_rate"))
	assert.Equal(t, 200000.0, params.Get("annual_spend_goal"))
	assert.Equal(t, 700000.50, params.Get("bal_taxable"))
	assert.False(t, params.Has("filing_status"), "text values are not numeric parameters")
	assert.False(t, params.Has("previous_year_taxes"), "empty values are skipped")
	assert.False(t, params.Has("parameter"))
}

func TestParseCSVWithoutHeader(t *testing.T) {
	params, err := NewInputParser().ParseCSV(strings.NewReader("\ufeffp1_start_age,60\np2_start_age,58\n"))
	require.NoError(t, err)
	assert.Equal(t, 60.0, params.Get("p1_start_age"))
	assert.Equal(t, 58.0, params.Get("p2_start_age"))
}

func TestParseCSVRejectsNonNumeric(t *testing.T) {
	_, err := NewInputParser().ParseCSV(strings.NewReader("parameter,value\nbal_taxable,lots\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "bal_taxable")
}

func TestParseCSVWarnsOnUnsupportedFilingStatus(t *testing.T) {
	logger := &recordingLogger{}
	parser := NewInputParser()
	parser.SetLogger(logger)

	_, err := parser.ParseCSV(strings.NewReader("filing_status,Single\n"))
	require.NoError(t, err)
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "filing_status")
}

func TestParseJSON(t *testing.T) {
	params, err := NewInputParser().ParseJSON([]byte(`{"p1_start_age": 65, "inflation_rate": "0.03", "volatility": null, "filing_status": "MFJ"}`))
	require.NoError(t, err)
	assert.Equal(t, 65.0, params.Get("p1_start_age"))
	assert.Equal(t, 0.03, params.Get("inflation_rate"))
	assert.False(t, params.Has("volatility"))

	_, err = NewInputParser().ParseJSON([]byte(`{"p1_start_age": true}`))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewInputParser().ParseJSON([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	params, err := NewInputParser().ParseYAML([]byte("p1_start_age: 65\ninflation_rate: 0.03\nbal_taxable: 700000\n"))
	require.NoError(t, err)
	assert.Equal(t, 65.0, params.Get("p1_start_age"))
	assert.Equal(t, 0.03, params.Get("inflation_rate"))
	assert.Equal(t, 700000.0, params.Get("bal_taxable"))
}

func TestLoadFromFile_Success(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		content string
	}{
		{"CSV", "params_*.csv", "parameter,value\np1_start_age,65\nend_simulation_age,95\n"},
		{"JSON", "params_*.json", `{"p1_start_age": 65, "end_simulation_age": 95}`},
		{"YAML", "params_*.yaml", "p1_start_age: 65\nend_simulation_age: 95\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.pattern, tt.content)
			params, err := NewInputParser().LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, 65.0, params.Get("p1_start_age"))
			assert.Equal(t, 95.0, params.Get("end_simulation_age"))
		})
	}
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	params, err := NewInputParser().LoadFromFile("nonexistent_file.yaml")
	assert.Error(t, err)
	assert.Nil(t, params)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidRange(t *testing.T) {
	path := writeTemp(t, "params_*.yaml", "inflation_rate: 0.9\n")
	_, err := NewInputParser().LoadFromFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "inflation_rate")
}

func TestWriteFileRoundTrip(t *testing.T) {
	example := CreateExampleParameters()
	parser := NewInputParser()

	for _, ext := range []string{".yaml", ".json", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "example"+ext)
			require.NoError(t, parser.WriteFile(path, example))

			loaded, err := parser.LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, example, loaded)
		})
	}
}
