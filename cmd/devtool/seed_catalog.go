package main

import (
	"github.com/spf13/cobra"

	"github.com/osse101/prizegrid/internal/bootstrap"
	"github.com/osse101/prizegrid/internal/config"
)

type SeedCatalogCommand struct {
	path string
}

func (c *SeedCatalogCommand) Name() string {
	return "seed-catalog"
}

func (c *SeedCatalogCommand) Description() string {
	return "Sync the catalog seed file into the database"
}

func (c *SeedCatalogCommand) Configure(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.path, "file", "", "seed file (defaults to CATALOG_SEED_PATH)")
}

func (c *SeedCatalogCommand) Run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	pool, cfg, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	path := c.path
	if path == "" {
		path = cfg.CatalogSeedPath
	}

	repos, err := bootstrap.InitializeRepositories(config.StoreDriverPostgres, pool)
	if err != nil {
		return err
	}

	result, err := bootstrap.SyncCatalog(ctx, repos.Catalog, path)
	if err != nil {
		return err
	}

	PrintSuccess("Catalog synced: %d inserted, %d updated, %d unchanged",
		result.EntriesInserted, result.EntriesUpdated, result.EntriesSkipped)
	return nil
}
