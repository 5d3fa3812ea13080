package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/prizegrid/internal/allocation"
	"github.com/osse101/prizegrid/internal/bootstrap"
	"github.com/osse101/prizegrid/internal/config"
	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/params"
)

type VerifyCommand struct{}

func (c *VerifyCommand) Name() string {
	return "verify"
}

func (c *VerifyCommand) Description() string {
	return "Recompute the hashes of committed ledger entries"
}

func (c *VerifyCommand) Configure(cmd *cobra.Command) {
	cmd.Use = "verify <ledger-id>..."
	cmd.Args = cobra.MinimumNArgs(1)
}

func (c *VerifyCommand) Run(cmd *cobra.Command, args []string) error {
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

	// verification never reads parameters, so the default baseline is enough
	svc := allocation.NewService(repos.Catalog, repos.Events, repos.Ledger, repos.Allocation,
		params.NewService(repos.Parameters, domain.DefaultBaselineFraction), nil,
		allocation.Config{RunCacheSize: 1, RunTTL: config.DefaultRunTTL})

	failed := 0
	for _, id := range args {
		v, err := svc.Verify(ctx, id)
		if err != nil {
			PrintError("%s: %v", id, err)
			failed++
			continue
		}
		if !v.Valid {
			PrintError("%s (event %s): %s", id, v.EventID, v.Problem)
			failed++
			continue
		}
		PrintSuccess("%s (event %s): %s", id, v.EventID, v.CommitHash)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d entries failed verification", failed, len(args))
	}
	return nil
}
