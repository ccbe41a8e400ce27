package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/household-sim/internal/domain"
)

func fixNow(t *testing.T) {
	t.Helper()
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = orig })
}

func TestGenerateReport(t *testing.T) {
	fixNow(t)
	dir := t.TempDir()

	paths, err := GenerateReport(buildTestComparison(), "csv", dir)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "household_report_20250102_030405.csv"), paths[0])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Scenario,Strategy"))
}

func TestGenerateReportAll(t *testing.T) {
	fixNow(t)
	dir := t.TempDir()
	paths, err := GenerateReport(buildTestComparison(), "all", dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, ".txt", filepath.Ext(paths[0]))
	assert.Equal(t, ".csv", filepath.Ext(paths[1]))
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := GenerateReport(&domain.ScenarioComparison{}, "definitely-not-a-format", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "Try one of:")
}

func TestWriteFormattedPropagatesFormatError(t *testing.T) {
	_, err := WriteFormatted(ChartFormatter{}, &domain.ScenarioComparison{}, t.TempDir(), "png")
	assert.ErrorIs(t, err, errNoChartData)
}

func TestSaveConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := buildTestComparison().Config
	require.NoError(t, SaveConfiguration(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 2025, decoded["start_year"])
	assert.Equal(t, 66, decoded["end_simulation_age"])
}
