// Command rpsim runs household retirement projections from a parameter file,
// compares withdrawal strategies, runs Monte Carlo batches and serves the
// simulator over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/household-sim/internal/calculation"
	"github.com/rpgo/household-sim/internal/config"
	"github.com/rpgo/household-sim/internal/domain"
)

type rootOptions struct {
	verbose   bool
	startYear int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "rpsim",
		Short:         "Household retirement simulator",
		Long:          "rpsim projects a two-person household's accounts, taxes and real estate year by year and compares withdrawal strategies.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&opts.startYear, "start-year", config.DefaultStartYear, "Year before the first simulated year")

	rootCmd.AddCommand(
		newRunCmd(opts),
		newMonteCarloCmd(opts),
		newServeCmd(opts),
		newHistoryCmd(opts),
		newExampleCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) logger(cmd *cobra.Command) calculation.Logger {
	return newCLILogger(cmd.ErrOrStderr(), o.verbose)
}

// loadConfig reads and validates a parameter file and builds the typed
// configuration from it.
func (o *rootOptions) loadConfig(cmd *cobra.Command, path string) (config.Parameters, *domain.SimulationConfig, error) {
	parser := config.NewInputParser()
	parser.SetLogger(o.logger(cmd))

	params, err := parser.LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := parser.BuildSimulationConfig(params, o.startYear)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid parameters in %s: %w", path, err)
	}
	return params, cfg, nil
}

func (o *rootOptions) engine(cmd *cobra.Command) *calculation.SimulationEngine {
	engine := calculation.NewSimulationEngine()
	engine.SetLogger(o.logger(cmd))
	engine.Debug = o.verbose
	return engine
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
