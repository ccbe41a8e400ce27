package calculation

import (
	"context"
	"testing"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comfortableHousehold() *domain.SimulationConfig {
	cfg := referenceHousehold()
	cfg.AnnualSpendGoal = d("120000")
	return cfg
}

func runBatch(t *testing.T, cfg *domain.SimulationConfig, mc MonteCarloConfig) *MonteCarloResult {
	t.Helper()
	result, err := NewMonteCarloRunner(nil).Run(context.Background(), cfg, mc)
	require.NoError(t, err)
	return result
}

func TestMonteCarloReproducibleAcrossWorkerCounts(t *testing.T) {
	cfg := referenceHousehold()
	serial := runBatch(t, cfg, MonteCarloConfig{NumSimulations: 24, Volatility: 0.15, Seed: 7, Workers: 1})
	parallel := runBatch(t, cfg, MonteCarloConfig{NumSimulations: 24, Volatility: 0.15, Seed: 7, Workers: 8})

	require.Equal(t, serial.Completed, parallel.Completed)
	for i := range serial.Runs {
		assert.Equal(t, i, serial.Runs[i].RunID)
		assert.True(t, serial.Runs[i].FinalNetWorth.Equal(parallel.Runs[i].FinalNetWorth), "run %d differs", i)
	}
	assert.True(t, serial.SuccessRate.Equal(parallel.SuccessRate))
}

func TestMonteCarloZeroVolatilityMatchesBaseline(t *testing.T) {
	result := runBatch(t, referenceHousehold(), MonteCarloConfig{NumSimulations: 5, Volatility: 0, Seed: 1, Strategy: "taxable_first"})

	baseline, ok := result.Baselines["taxable_first"]
	require.True(t, ok)
	_, ok = result.Baselines["standard"]
	require.True(t, ok)

	for _, run := range result.Runs {
		assert.True(t, run.FinalNetWorth.Equal(baseline.FinalNetWorth()))
	}
	assert.True(t, result.SuccessRate.Equal(decimal.NewFromInt(100)) || result.SuccessRate.IsZero())
	assert.Equal(t, "taxable_first", result.Strategy)
}

func TestMonteCarloResultShape(t *testing.T) {
	cfg := referenceHousehold()
	result := runBatch(t, cfg, MonteCarloConfig{NumSimulations: 10, Volatility: 0.1, Seed: 3})

	assert.Equal(t, 10, result.NumSimulations)
	assert.Equal(t, 10, result.Completed)
	assert.Len(t, result.Runs, 10)
	require.Len(t, result.Stats, cfg.Years())
	assert.Equal(t, 2026, result.Stats[0].Year)
	assert.Equal(t, 65, result.Stats[0].P1Age)

	for _, s := range result.Stats {
		for _, set := range []PercentileSet{s.NetWorth, s.Roth, s.Pretax, s.Taxable} {
			assert.True(t, set.P10.LessThanOrEqual(set.P25))
			assert.True(t, set.P25.LessThanOrEqual(set.Median))
			assert.True(t, set.Median.LessThanOrEqual(set.P75))
			assert.True(t, set.P75.LessThanOrEqual(set.P90))
		}
	}

	expected := decimal.NewFromInt(int64(result.Successes())).Div(decimal.NewFromInt(10)).Mul(decimal.NewFromInt(100))
	assert.True(t, result.SuccessRate.Equal(expected.Round(2)))
	assert.Len(t, result.FinalNetWorths(), 10)
}

// TestMonteCarloSuccessRateFallsWithVolatility is statistical: the same seed
// scales the same normal draws, and wider swings can only hurt a household
// that succeeds deterministically.
func TestMonteCarloSuccessRateFallsWithVolatility(t *testing.T) {
	cfg := comfortableHousehold()
	calm := runBatch(t, cfg, MonteCarloConfig{NumSimulations: 1, Volatility: 0, Seed: 5})
	mild := runBatch(t, cfg, MonteCarloConfig{NumSimulations: 150, Volatility: 0.05, Seed: 5})
	wild := runBatch(t, cfg, MonteCarloConfig{NumSimulations: 150, Volatility: 0.40, Seed: 5})

	assert.True(t, calm.SuccessRate.Equal(decimal.NewFromInt(100)))
	assert.True(t, mild.SuccessRate.LessThanOrEqual(calm.SuccessRate))
	assert.True(t, wild.SuccessRate.LessThanOrEqual(mild.SuccessRate),
		"wild %s vs mild %s", wild.SuccessRate, mild.SuccessRate)
}

func TestMonteCarloUsesSeedFuncWhenUnseeded(t *testing.T) {
	orig := seedFunc
	SetSeedFunc(func() int64 { return 99 })
	defer SetSeedFunc(orig)

	result := runBatch(t, zeroHousehold(), MonteCarloConfig{NumSimulations: 2, Volatility: 0.1})
	assert.Equal(t, int64(99), result.Seed)
}

func TestMonteCarloUnseededBatchReplaysWithReportedSeed(t *testing.T) {
	orig := seedFunc
	SetSeedFunc(func() int64 { return 4242 })
	defer SetSeedFunc(orig)

	unseeded := runBatch(t, referenceHousehold(), MonteCarloConfig{NumSimulations: 6, Volatility: 0.15, Seed: 0})
	require.NotZero(t, unseeded.Seed)

	SetSeedFunc(func() int64 { return 1 })
	replay := runBatch(t, referenceHousehold(), MonteCarloConfig{NumSimulations: 6, Volatility: 0.15, Seed: unseeded.Seed})
	assert.Equal(t, unseeded.Seed, replay.Seed)
	for i := range unseeded.Runs {
		assert.True(t, unseeded.Runs[i].FinalNetWorth.Equal(replay.Runs[i].FinalNetWorth), "run %d differs", i)
	}
}

func TestMonteCarloErrors(t *testing.T) {
	runner := NewMonteCarloRunner(nil)
	ctx := context.Background()

	_, err := runner.Run(ctx, nil, MonteCarloConfig{NumSimulations: 1})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = runner.Run(ctx, referenceHousehold(), MonteCarloConfig{NumSimulations: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = runner.Run(ctx, referenceHousehold(), MonteCarloConfig{NumSimulations: 1, Volatility: -0.1})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = runner.Run(ctx, referenceHousehold(), MonteCarloConfig{NumSimulations: 1, Strategy: "bogus"})
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = runner.Run(cancelled, referenceHousehold(), MonteCarloConfig{NumSimulations: 4, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPercentile(t *testing.T) {
	values := []decimal.Decimal{d("5"), d("1"), d("4"), d("2"), d("3")}
	set := NewPercentileSet(values)

	assert.True(t, set.Median.Equal(d("3")))
	assert.True(t, set.P10.Equal(d("1.4")), "got %s", set.P10)
	assert.True(t, set.P25.Equal(d("2")))
	assert.True(t, set.P75.Equal(d("4")))
	assert.True(t, set.P90.Equal(d("4.6")), "got %s", set.P90)
	assert.True(t, values[0].Equal(d("5")), "input must not be reordered")

	assert.True(t, Percentile(nil, 0.5).IsZero())
	assert.True(t, Percentile([]decimal.Decimal{d("7")}, 0.9).Equal(d("7")))
	assert.True(t, Percentile([]decimal.Decimal{d("1"), d("2")}, 1).Equal(d("2")))
}
