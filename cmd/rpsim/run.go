package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rpgo/household-sim/internal/domain"
	"github.com/rpgo/household-sim/internal/output"
)

type runOptions struct {
	format    string
	outputDir string
	strategy  string
	saveCfg   string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <params-file>",
		Short: "Run the deterministic projection and compare strategies",
		Long: "Run the year-by-year projection for every built-in withdrawal strategy (or one, with --strategy).\n" +
			"Text formats print to stdout unless --output-dir is given; chart and \"all\" always write files.\n" +
			"Formats: " + strings.Join(output.AvailableFormatterNames(), ", ") + ", all",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, root, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "console", "Output format")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Write the report to a timestamped file in this directory")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "Run a single strategy (standard, taxable_first)")
	cmd.Flags().StringVar(&opts.saveCfg, "save-config", "", "Also write the resolved configuration as YAML to this file")
	return cmd
}

func runSimulation(cmd *cobra.Command, root *rootOptions, opts *runOptions, path string) error {
	_, cfg, err := root.loadConfig(cmd, path)
	if err != nil {
		return err
	}

	engine := root.engine(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var results *domain.ScenarioComparison
	if opts.strategy != "" {
		scenario, err := engine.RunScenario(ctx, cfg, opts.strategy)
		if err != nil {
			return err
		}
		results = &domain.ScenarioComparison{Config: cfg, Scenarios: []domain.Scenario{*scenario}}
	} else {
		results, err = engine.RunComparison(ctx, cfg)
		if err != nil {
			return err
		}
	}

	if opts.saveCfg != "" {
		if err := output.SaveConfiguration(cfg, opts.saveCfg); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
	}

	format := output.NormalizeFormatName(opts.format)
	if opts.outputDir == "" && format != "all" && format != "chart" {
		f := output.GetFormatterByName(format)
		if f == nil {
			// GenerateReport builds the descriptive error.
			_, err := output.GenerateReport(results, opts.format, opts.outputDir)
			return err
		}
		data, err := f.Format(results)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	paths, err := output.GenerateReport(results, opts.format, opts.outputDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", p)
	}
	return nil
}
