package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rpgo/household-sim/internal/output"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		limit int
		runs  int64
	)
	cmd := &cobra.Command{
		Use:   "history <archive.db>",
		Short: "List archived Monte Carlo batches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openArchive(args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if runs > 0 {
				finals, err := store.RunFinals(runs)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "RUN\tFINAL NET WORTH\tSUCCESS")
				for _, r := range finals {
					fmt.Fprintf(w, "%d\t%s\t%t\n", r.RunID, output.FormatWholeCurrency(r.FinalNetWorth), r.Success)
				}
				return w.Flush()
			}

			batches, err := store.ListBatches(limit)
			if err != nil {
				return err
			}
			if len(batches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived batches.")
				return nil
			}
			fmt.Fprintln(w, "ID\tCREATED\tLABEL\tSTRATEGY\tRUNS\tVOLATILITY\tSEED\tSUCCESS\tP10\tMEDIAN\tP90")
			for _, b := range batches {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\t%d\t%s%%\t%s\t%s\t%s\n",
					b.ID, b.CreatedAt.Format("2006-01-02 15:04"), b.Label, b.Strategy,
					strconv.Itoa(b.Completed)+"/"+strconv.Itoa(b.NumSimulations),
					b.Volatility, b.Seed, b.SuccessRate.StringFixed(2),
					output.FormatWholeCurrency(b.P10Final),
					output.FormatWholeCurrency(b.MedianFinal),
					output.FormatWholeCurrency(b.P90Final))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Show at most this many batches (0 for all)")
	cmd.Flags().Int64Var(&runs, "runs", 0, "Show the per-run outcomes of this batch instead")
	return cmd
}
