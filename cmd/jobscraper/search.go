package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"go-job-scraper/internal/models"
	"go-job-scraper/internal/orchestrator"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var q models.Query

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run one search and write the spreadsheet",
		Example: `  jobscraper search --designation "Data Analyst" --city "Austin"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := q.Validate(); err != nil {
				return err
			}

			orch, err := buildOrchestrator(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			res, runErr := orch.Run(ctx, q, func(p orchestrator.Progress) {
				log.Info().Msg(p.String())
			})

			if notifier := buildNotifier(cfg); notifier != nil {
				nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
				defer cancel()
				if runErr != nil {
					err = notifier.NotifyFailed(nctx, q.Normalize(), runErr)
				} else {
					err = notifier.NotifyDone(nctx, res)
				}
				if err != nil {
					log.Warn().Err(err).Msg("⚠️ Failed to send run notification")
				}
			}

			if runErr != nil {
				return runErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d listings saved to %s\n", len(res.Records), res.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&q.Designation, "designation", "d", "", "job title to search for")
	cmd.Flags().StringVarP(&q.City, "city", "c", "", "city to search in")
	_ = cmd.MarkFlagRequired("designation")
	_ = cmd.MarkFlagRequired("city")
	return cmd
}
