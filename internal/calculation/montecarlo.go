package calculation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/shopspring/decimal"
)

// MonteCarloConfig holds configuration for a Monte Carlo batch.
//
// Seed 0 is reserved to mean "unseeded": the runner draws a fresh seed from
// seedFunc and reports it in MonteCarloResult.Seed. Rerunning with that
// reported seed replays the batch. Zero itself can never be replayed, so
// any nonzero value is the way to pin a batch.
type MonteCarloConfig struct {
	NumSimulations int
	Volatility     float64 // Standard deviation of the yearly market perturbation
	Seed           int64   // Batch seed; 0 draws a fresh one
	Strategy       string
	Workers        int // Concurrent runs; 0 means runtime.NumCPU()
}

// PercentileSet summarises one metric across runs for a single year.
type PercentileSet struct {
	Median decimal.Decimal `json:"median"`
	P10    decimal.Decimal `json:"p10"`
	P25    decimal.Decimal `json:"p25"`
	P75    decimal.Decimal `json:"p75"`
	P90    decimal.Decimal `json:"p90"`
}

// YearPercentiles holds the cross-run distribution of the tracked balances
// for one simulated year.
type YearPercentiles struct {
	Year     int           `json:"year"`
	P1Age    int           `json:"p1_age"`
	NetWorth PercentileSet `json:"net_worth"`
	Roth     PercentileSet `json:"roth"`
	Pretax   PercentileSet `json:"pretax"`
	Taxable  PercentileSet `json:"taxable"`
}

// RunSummary is one completed Monte Carlo run.
type RunSummary struct {
	RunID         int              `json:"run_id"`
	FinalNetWorth decimal.Decimal  `json:"final_net_worth"`
	Success       bool             `json:"success"`
	Records       domain.RunResult `json:"data"`
}

// MonteCarloResult represents the results of a Monte Carlo batch.
type MonteCarloResult struct {
	SuccessRate    decimal.Decimal             `json:"success_rate"`
	Stats          []YearPercentiles           `json:"stats"`
	Runs           []RunSummary                `json:"all_runs"`
	NumSimulations int                         `json:"num_simulations"`
	Completed      int                         `json:"completed"`
	Volatility     float64                     `json:"volatility"`
	Seed           int64                       `json:"seed"`
	Strategy       string                      `json:"strategy"`
	Baselines      map[string]domain.RunResult `json:"baselines"`
}

// Successes counts the runs that ended with positive net worth.
func (r *MonteCarloResult) Successes() int {
	n := 0
	for _, run := range r.Runs {
		if run.Success {
			n++
		}
	}
	return n
}

// FinalNetWorths returns the final net worth of every completed run, in run order.
func (r *MonteCarloResult) FinalNetWorths() []decimal.Decimal {
	out := make([]decimal.Decimal, len(r.Runs))
	for i, run := range r.Runs {
		out[i] = run.FinalNetWorth
	}
	return out
}

// MonteCarloRunner executes batches of stochastic projections.
type MonteCarloRunner struct {
	Engine *SimulationEngine
	Logger Logger
}

// NewMonteCarloRunner creates a runner over engine (a default engine when nil).
func NewMonteCarloRunner(engine *SimulationEngine) *MonteCarloRunner {
	if engine == nil {
		engine = NewSimulationEngine()
	}
	return &MonteCarloRunner{Engine: engine, Logger: WithPrefix(engine.log(), "monte carlo")}
}

// SetLogger sets the logger for the runner. If nil is provided, a no-op logger is used.
func (mcr *MonteCarloRunner) SetLogger(l Logger) {
	mcr.Logger = WithPrefix(l, "monte carlo")
}

type runOutcome struct {
	records domain.RunResult
	err     error
}

// Run executes mc.NumSimulations independent projections. Run i draws its
// market path from a source seeded with batchSeed+i, so a batch is
// reproducible regardless of how runs are scheduled. When ctx is cancelled
// the runs already finished are aggregated and returned together with the
// context error.
func (mcr *MonteCarloRunner) Run(ctx context.Context, cfg *domain.SimulationConfig, mc MonteCarloConfig) (*MonteCarloResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", ErrInvalidConfig)
	}
	if mc.NumSimulations <= 0 {
		return nil, fmt.Errorf("%w: num_simulations must be positive, got %d", ErrInvalidConfig, mc.NumSimulations)
	}
	if math.IsNaN(mc.Volatility) || math.IsInf(mc.Volatility, 0) || mc.Volatility < 0 {
		return nil, fmt.Errorf("%w: volatility must be a non-negative number, got %v", ErrInvalidConfig, mc.Volatility)
	}
	strategy, err := NewWithdrawalStrategy(mc.Strategy)
	if err != nil {
		return nil, err
	}
	if mc.Seed == 0 {
		mc.Seed = seedFunc()
	}
	workers := mc.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	baselines := make(map[string]domain.RunResult, len(StrategyKinds()))
	for _, kind := range StrategyKinds() {
		scenario, err := mcr.Engine.RunScenario(ctx, cfg, string(kind))
		if err != nil {
			return nil, fmt.Errorf("failed to compute baseline: %w", err)
		}
		baselines[scenario.Strategy] = scenario.Records
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]*runOutcome, mc.NumSimulations)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < mc.NumSimulations; i++ {
		wg.Add(1)
		go func(runID int) {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}:
			case <-batchCtx.Done():
				return
			}
			defer func() { <-semaphore }()
			if batchCtx.Err() != nil {
				return
			}

			market := MarketFor(mc.Volatility, mc.Seed+int64(runID))
			records, err := mcr.Engine.Run(batchCtx, cfg, strategy, market)
			if err != nil {
				if interrupted(batchCtx, err) {
					return
				}
				cancel()
			}
			outcomes[runID] = &runOutcome{records: records, err: err}
		}(i)
	}
	wg.Wait()

	// First run-level failure wins, in run order.
	for id, o := range outcomes {
		if o != nil && o.err != nil {
			return nil, fmt.Errorf("monte carlo run %d: %w", id, o.err)
		}
	}

	result := aggregate(outcomes, mc, strategy.Kind())
	result.Baselines = baselines
	logger := mcr.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	logger.Infof("%d/%d runs completed, success rate %s%%",
		result.Completed, mc.NumSimulations, result.SuccessRate.StringFixed(1))

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// interrupted reports whether err only signals that the batch was stopped
// before the run could finish.
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

// aggregate is a single sequential pass over the completed runs in run order.
func aggregate(outcomes []*runOutcome, mc MonteCarloConfig, kind StrategyKind) *MonteCarloResult {
	result := &MonteCarloResult{
		SuccessRate:    decimal.Zero,
		NumSimulations: mc.NumSimulations,
		Volatility:     mc.Volatility,
		Seed:           mc.Seed,
		Strategy:       string(kind),
	}

	var completed []domain.RunResult
	for id, o := range outcomes {
		if o == nil || o.err != nil {
			continue
		}
		final := o.records.FinalNetWorth()
		result.Runs = append(result.Runs, RunSummary{
			RunID:         id,
			FinalNetWorth: final,
			Success:       final.IsPositive(),
			Records:       o.records,
		})
		completed = append(completed, o.records)
	}
	result.Completed = len(result.Runs)
	if result.Completed == 0 {
		return result
	}

	result.SuccessRate = decimal.NewFromInt(int64(result.Successes())).
		Div(decimal.NewFromInt(int64(result.Completed))).
		Mul(hundred).
		Round(2)
	result.Stats = yearlyPercentiles(completed)
	return result
}

// yearlyPercentiles computes per-year distributions. Every run of a batch
// covers the same years, so records are aligned by index.
func yearlyPercentiles(runs []domain.RunResult) []YearPercentiles {
	years := len(runs[0])
	stats := make([]YearPercentiles, 0, years)

	netWorth := make([]decimal.Decimal, len(runs))
	roth := make([]decimal.Decimal, len(runs))
	pretax := make([]decimal.Decimal, len(runs))
	taxable := make([]decimal.Decimal, len(runs))

	for y := 0; y < years; y++ {
		for i, run := range runs {
			rec := run[y]
			netWorth[i] = rec.NetWorth
			roth[i] = rec.RothTotal()
			pretax[i] = rec.PretaxTotal()
			taxable[i] = rec.BalTaxable
		}
		stats = append(stats, YearPercentiles{
			Year:     runs[0][y].Year,
			P1Age:    runs[0][y].P1Age,
			NetWorth: NewPercentileSet(netWorth),
			Roth:     NewPercentileSet(roth),
			Pretax:   NewPercentileSet(pretax),
			Taxable:  NewPercentileSet(taxable),
		})
	}
	return stats
}

// NewPercentileSet computes the median, 10th, 25th, 75th and 90th percentiles
// of values. The input slice is not modified.
func NewPercentileSet(values []decimal.Decimal) PercentileSet {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	return PercentileSet{
		Median: Percentile(sorted, 0.50),
		P10:    Percentile(sorted, 0.10),
		P25:    Percentile(sorted, 0.25),
		P75:    Percentile(sorted, 0.75),
		P90:    Percentile(sorted, 0.90),
	}
}

// Percentile returns the q-quantile (0 <= q <= 1) of an ascending slice,
// interpolating linearly between the two nearest ranks.
func Percentile(sorted []decimal.Decimal, q float64) decimal.Decimal {
	n := len(sorted)
	switch {
	case n == 0:
		return decimal.Zero
	case n == 1 || q <= 0:
		return sorted[0]
	case q >= 1:
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n || frac == 0 {
		return sorted[lo]
	}
	spread := sorted[lo+1].Sub(sorted[lo])
	return sorted[lo].Add(spread.Mul(decimal.NewFromFloat(frac))).Round(2)
}
