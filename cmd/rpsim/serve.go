package main

import (
	"github.com/spf13/cobra"

	"github.com/rpgo/household-sim/internal/api"
)

type serveOptions struct {
	addr    string
	archive string
	workers int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator over HTTP",
		Long:  "Serve the simulation API. The listen address defaults to :$PORT, or :" + api.DefaultPort + " when PORT is unset.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, closeFn, err := opts.server(cmd, root)
			if err != nil {
				return err
			}
			defer closeFn()
			addr := opts.addr
			if addr == "" {
				addr = api.Addr()
			}
			return srv.ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides PORT)")
	cmd.Flags().StringVar(&opts.archive, "archive", "", "Archive Monte Carlo batches in this SQLite database")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent Monte Carlo runs per request (0 uses all CPUs)")
	return cmd
}

// server builds the API server. The returned close function releases the
// archive, if one was opened.
func (o *serveOptions) server(cmd *cobra.Command, root *rootOptions) (*api.Server, func() error, error) {
	srv := api.NewServer(root.engine(cmd))
	srv.SetLogger(root.logger(cmd))
	srv.StartYear = root.startYear
	srv.Workers = o.workers

	closeFn := func() error { return nil }
	if o.archive != "" {
		store, c, err := openArchive(o.archive)
		if err != nil {
			return nil, nil, err
		}
		srv.Archive = store
		closeFn = c
	}
	return srv, closeFn, nil
}
