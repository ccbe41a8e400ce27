package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rpgo/household-sim/internal/calculation"
	"github.com/rpgo/household-sim/internal/config"
	"github.com/rpgo/household-sim/internal/output"
	"github.com/rpgo/household-sim/internal/storage"
)

type monteCarloOptions struct {
	simulations int
	volatility  float64
	seed        int64
	workers     int
	strategy    string
	csvDir      string
	pdfPath     string
	htmlPath    string
	chartPath   string
	archive     string
	label       string
	compare     bool
}

func newMonteCarloCmd(root *rootOptions) *cobra.Command {
	opts := &monteCarloOptions{}
	cmd := &cobra.Command{
		Use:   "montecarlo <params-file>",
		Short: "Run a Monte Carlo batch with randomised market returns",
		Long: "Run many projections with a yearly correlated market perturbation and summarise the\n" +
			"distribution of outcomes. --simulations, --volatility and --seed override the values in\n" +
			"the parameter file. Seed 0 means unseeded: a fresh seed is drawn and printed, and\n" +
			"passing that printed seed back replays the batch.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonteCarlo(cmd, root, opts, args[0])
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.simulations, "simulations", "n", config.DefaultSimulations, "Number of runs")
	f.Float64Var(&opts.volatility, "volatility", config.DefaultVolatility, "Standard deviation of the yearly market perturbation")
	f.Int64Var(&opts.seed, "seed", 0, "Batch seed; any nonzero value is reproducible. 0 draws a fresh seed and prints it")
	f.IntVar(&opts.workers, "workers", 0, "Concurrent runs (0 uses all CPUs)")
	f.StringVarP(&opts.strategy, "strategy", "s", "standard", "Withdrawal strategy for the batch")
	f.StringVar(&opts.csvDir, "csv-dir", "", "Write summary, detailed and percentile CSVs to this directory")
	f.StringVar(&opts.pdfPath, "pdf", "", "Write a PDF report to this file")
	f.StringVar(&opts.htmlPath, "html", "", "Write an interactive HTML report to this file")
	f.StringVar(&opts.chartPath, "chart", "", "Write the net worth fan chart PNG to this file")
	f.StringVar(&opts.archive, "archive", "", "Archive the batch in this SQLite database")
	f.StringVar(&opts.label, "label", "cli", "Label stored with the archived batch")
	f.BoolVar(&opts.compare, "compare", false, "Include the deterministic strategy comparison in the PDF")
	return cmd
}

// settings applies flag overrides to the batch settings read from params.
func (o *monteCarloOptions) settings(cmd *cobra.Command, params config.Parameters) config.MonteCarloOptions {
	s := config.MonteCarloSettings(params)
	if cmd.Flags().Changed("simulations") {
		s.NumSimulations = o.simulations
	}
	if cmd.Flags().Changed("volatility") {
		s.Volatility = o.volatility
	}
	if cmd.Flags().Changed("seed") {
		s.Seed = o.seed
	}
	return s
}

func runMonteCarlo(cmd *cobra.Command, root *rootOptions, opts *monteCarloOptions, path string) error {
	params, cfg, err := root.loadConfig(cmd, path)
	if err != nil {
		return err
	}
	settings := opts.settings(cmd, params)
	if settings.NumSimulations < 1 {
		return fmt.Errorf("%w: simulations must be at least 1, got %d", config.ErrInvalidParameter, settings.NumSimulations)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	engine := root.engine(cmd)
	runner := calculation.NewMonteCarloRunner(engine)
	runner.SetLogger(root.logger(cmd))

	result, err := runner.Run(ctx, cfg, calculation.MonteCarloConfig{
		NumSimulations: settings.NumSimulations,
		Volatility:     settings.Volatility,
		Seed:           settings.Seed,
		Strategy:       opts.strategy,
		Workers:        opts.workers,
	})
	if err != nil && !(result != nil && errors.Is(err, context.Canceled)) {
		return err
	}

	out := cmd.OutOrStdout()
	printMonteCarloSummary(out, result)

	if opts.csvDir != "" {
		if err := os.MkdirAll(opts.csvDir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.csvDir, err)
		}
		report := output.MonteCarloCSVReport{Result: result}
		paths, err := report.GenerateAllCSVReports(opts.csvDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(out, "CSV written to %s\n", p)
		}
	}

	if opts.chartPath != "" {
		png, err := output.RenderFanChart(result)
		if err != nil {
			return err
		}
		if err := writeFile(opts.chartPath, png); err != nil {
			return err
		}
		fmt.Fprintf(out, "Chart written to %s\n", opts.chartPath)
	}

	if opts.htmlPath != "" {
		report := output.MonteCarloHTMLReport{Result: result}
		if err := report.WriteFile(opts.htmlPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "HTML report written to %s\n", opts.htmlPath)
	}

	if opts.pdfPath != "" {
		report := output.MonteCarloPDFReport{Result: result}
		if opts.compare {
			if report.Comparison, err = engine.RunComparison(ctx, cfg); err != nil {
				return err
			}
		}
		if err := report.WriteFile(opts.pdfPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "PDF written to %s\n", opts.pdfPath)
	}

	if opts.archive != "" {
		id, err := archiveBatch(opts.archive, opts.label, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Archived as batch %d in %s\n", id, opts.archive)
	}
	return nil
}

func printMonteCarloSummary(w io.Writer, result *calculation.MonteCarloResult) {
	fmt.Fprintf(w, "MONTE CARLO SIMULATION (%s)\n", calculation.ScenarioName(calculation.StrategyKind(result.Strategy)))
	fmt.Fprintf(w, "Runs: %d of %d  Volatility: %.2f  Seed: %d\n", result.Completed, result.NumSimulations, result.Volatility, result.Seed)
	fmt.Fprintf(w, "Success rate: %s%%\n", result.SuccessRate.StringFixed(2))

	finals := calculation.NewPercentileSet(result.FinalNetWorths())
	fmt.Fprintf(w, "Final net worth  P10: %s  Median: %s  P90: %s\n",
		output.FormatWholeCurrency(finals.P10),
		output.FormatWholeCurrency(finals.Median),
		output.FormatWholeCurrency(finals.P90))
}

func archiveBatch(path, label string, result *calculation.MonteCarloResult) (int64, error) {
	store, closeFn, err := openArchive(path)
	if err != nil {
		return 0, err
	}
	defer closeFn()
	return store.SaveBatch(label, result)
}

// openArchive opens (creating if needed) the SQLite batch archive at path.
func openArchive(path string) (*storage.Store, func() error, error) {
	db, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	if err := storage.InitSchema(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialise archive %s: %w", path, err)
	}
	return storage.NewStore(db), db.Close, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
