package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/household-sim/internal/calculation"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))
	require.NoError(t, InitSchema(db), "schema creation is idempotent")

	s := NewStore(db)
	s.now = func() time.Time { return time.Unix(1735689600, 0) }
	return s
}

func testResult(finals ...int64) *calculation.MonteCarloResult {
	res := &calculation.MonteCarloResult{
		NumSimulations: len(finals),
		Completed:      len(finals),
		Volatility:     0.15,
		Seed:           7,
		Strategy:       "standard",
	}
	wins := 0
	for i, f := range finals {
		nw := decimal.NewFromInt(f)
		res.Runs = append(res.Runs, calculation.RunSummary{RunID: i, FinalNetWorth: nw, Success: nw.IsPositive()})
		if nw.IsPositive() {
			wins++
		}
	}
	res.SuccessRate = decimal.NewFromInt(int64(wins * 100 / len(finals)))
	return res
}

func TestSaveAndListBatches(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.SaveBatch("first", testResult(100, 0, 300, 400))
	require.NoError(t, err)
	id2, err := s.SaveBatch("second", testResult(1000, 2000))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	batches, err := s.ListBatches(0)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "second", batches[0].Label, "newest first")

	first := batches[1]
	assert.Equal(t, id1, first.ID)
	assert.Equal(t, "standard", first.Strategy)
	assert.Equal(t, 4, first.NumSimulations)
	assert.Equal(t, 4, first.Completed)
	assert.Equal(t, 0.15, first.Volatility)
	assert.Equal(t, int64(7), first.Seed)
	assert.True(t, first.SuccessRate.Equal(decimal.NewFromInt(75)))
	assert.True(t, first.MedianFinal.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, int64(1735689600), first.CreatedAt.Unix())

	limited, err := s.ListBatches(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, id2, limited[0].ID)
}

func TestRunFinals(t *testing.T) {
	s := openTestStore(t)
	id, err := s.SaveBatch("runs", testResult(500, 0, 250))
	require.NoError(t, err)

	runs, err := s.RunFinals(id)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 0, runs[0].RunID)
	assert.True(t, runs[0].FinalNetWorth.Equal(decimal.NewFromInt(500)))
	assert.True(t, runs[0].Success)
	assert.False(t, runs[1].Success)

	none, err := s.RunFinals(id + 100)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaveBatchRollsBackOnRunFailure(t *testing.T) {
	s := openTestStore(t)

	broken := testResult(100, 200, 300)
	broken.Runs[2].RunID = 0
	id, err := s.SaveBatch("broken", broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert run 0")
	assert.Zero(t, id)

	batches, err := s.ListBatches(0)
	require.NoError(t, err)
	assert.Empty(t, batches, "a failed save leaves no batch row")

	id, err = s.SaveBatch("ok", testResult(100, 200))
	require.NoError(t, err)
	runs, err := s.RunFinals(id)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	batches, err = s.ListBatches(0)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "ok", batches[0].Label)
}
