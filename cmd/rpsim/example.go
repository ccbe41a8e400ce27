package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/household-sim/internal/config"
)

func newExampleCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example parameter file",
		Long:  "Write the reference household's parameters. The format follows the extension (.yaml, .json or .csv); the default file is example_params.yaml.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "example_params.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			parser := config.NewInputParser()
			parser.SetLogger(root.logger(cmd))
			if err := parser.WriteFile(path, config.CreateExampleParameters()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example parameters written to %s\n", path)
			return nil
		},
	}
}
