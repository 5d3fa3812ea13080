package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type CheckDBCommand struct {
	attempts int
	interval time.Duration
}

func (c *CheckDBCommand) Name() string {
	return "check-db"
}

func (c *CheckDBCommand) Description() string {
	return "Wait for the database to accept connections"
}

func (c *CheckDBCommand) Configure(cmd *cobra.Command) {
	cmd.Flags().IntVar(&c.attempts, "attempts", 30, "connection attempts before giving up")
	cmd.Flags().DurationVar(&c.interval, "interval", 2*time.Second, "delay between attempts")
}

func (c *CheckDBCommand) Run(cmd *cobra.Command, _ []string) error {
	PrintHeader("Waiting for database...")

	var lastErr error
	for i := 0; i < c.attempts; i++ {
		ctx, cancel := context.WithTimeout(cmd.Context(), c.interval)
		pool, _, err := connect(ctx)
		cancel()
		if err == nil {
			pool.Close()
			PrintSuccess("Database is ready")
			return nil
		}
		lastErr = err

		fmt.Printf("Database not ready (%d/%d): %v\n", i+1, c.attempts, err)
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(c.interval):
		}
	}

	return fmt.Errorf("database failed to become ready after %d attempts: %w", c.attempts, lastErr)
}
