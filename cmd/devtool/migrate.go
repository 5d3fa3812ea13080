package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/prizegrid/internal/database"
)

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Apply embedded migrations (up) or print the schema version (status)"
}

func (c *MigrateCommand) Configure(cmd *cobra.Command) {
	cmd.Use = "migrate <up|status>"
	cmd.Args = cobra.ExactArgs(1)
	cmd.ValidArgs = []string{"up", "status"}
}

func (c *MigrateCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	pool, _, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch args[0] {
	case "up":
		PrintHeader("Applying migrations")
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
	case "status":
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}

	version, err := database.SchemaVersion(ctx, pool)
	if err != nil {
		return err
	}
	PrintSuccess("Schema version %d", version)
	return nil
}
