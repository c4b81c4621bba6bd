package main

import (
	"github.com/spf13/cobra"

	"go-job-scraper/internal/controller"
	"go-job-scraper/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search form",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}

			orch, err := buildOrchestrator(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ctrl := controller.New(orch, buildNotifier(cfg))
			ctrl.Start(ctx)

			return server.New(cfg.Server.Addr, ctrl).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}
