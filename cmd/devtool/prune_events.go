package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/prizegrid/internal/bootstrap"
	"github.com/osse101/prizegrid/internal/config"
	"github.com/osse101/prizegrid/internal/eventlog"
)

type PruneEventsCommand struct {
	days int
}

func (c *PruneEventsCommand) Name() string {
	return "prune-events"
}

func (c *PruneEventsCommand) Description() string {
	return "Delete event log entries older than the retention window"
}

func (c *PruneEventsCommand) Configure(cmd *cobra.Command) {
	cmd.Flags().IntVar(&c.days, "days", config.DefaultEventLogRetentionDays, "retention window in days")
}

func (c *PruneEventsCommand) Run(cmd *cobra.Command, _ []string) error {
	if c.days <= 0 {
		return fmt.Errorf("--days must be positive, got %d", c.days)
	}
	ctx := cmd.Context()

	pool, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repos, err := bootstrap.InitializeRepositories(config.StoreDriverPostgres, pool)
	if err != nil {
		return err
	}

	deleted, err := eventlog.NewService(repos.EventLog).CleanupOldEvents(ctx, c.days)
	if err != nil {
		return err
	}
	PrintSuccess("Deleted %d event log entries older than %d days", deleted, c.days)
	return nil
}
