package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/osse101/prizegrid/internal/allocation"
	"github.com/osse101/prizegrid/internal/bootstrap"
	"github.com/osse101/prizegrid/internal/config"
	"github.com/osse101/prizegrid/internal/domain"
	"github.com/osse101/prizegrid/internal/params"
)

// ReplayCommand draws a grid for an event file against an in-memory copy of
// the catalog. Nothing touches the database, so the same event and seed can
// be replayed to check determinism.
type ReplayCommand struct {
	catalogPath string
	baseline    string
	commit      bool
	confirm     bool
}

func (c *ReplayCommand) Name() string {
	return "replay"
}

func (c *ReplayCommand) Description() string {
	return "Dry-run an allocation for an event JSON file on an in-memory store"
}

func (c *ReplayCommand) Configure(cmd *cobra.Command) {
	cmd.Use = "replay <event.json>"
	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().StringVar(&c.catalogPath, "catalog", config.DefaultCatalogSeedPath, "catalog seed file")
	cmd.Flags().StringVar(&c.baseline, "baseline", config.DefaultBaselineFraction, "baseline spending fraction")
	cmd.Flags().BoolVar(&c.commit, "commit", false, "commit the run and verify the ledger entry")
	cmd.Flags().BoolVar(&c.confirm, "confirm-over-budget", false, "allow committing an untrimmed RED run")
}

func (c *ReplayCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	evt, err := readEvent(args[0])
	if err != nil {
		return err
	}
	baseline, err := decimal.NewFromString(c.baseline)
	if err != nil {
		return fmt.Errorf("invalid baseline: %w", err)
	}

	repos, err := bootstrap.InitializeRepositories(config.StoreDriverMemory, nil)
	if err != nil {
		return err
	}
	if _, err := bootstrap.SyncCatalog(ctx, repos.Catalog, c.catalogPath); err != nil {
		return err
	}
	if err := repos.Events.CreateEvent(ctx, evt); err != nil {
		return err
	}

	paramsSvc := params.NewService(repos.Parameters, baseline)
	svc := allocation.NewService(repos.Catalog, repos.Events, repos.Ledger, repos.Allocation, paramsSvc, nil,
		allocation.Config{RunCacheSize: 4, RunTTL: config.DefaultRunTTL})

	run, err := svc.Preview(ctx, allocation.PreviewRequest{EventID: evt.ID})
	if err != nil {
		return err
	}
	printRun(run)

	if !c.commit {
		return nil
	}

	run, err = svc.Commit(ctx, run.ID, allocation.CommitOptions{ConfirmOverBudget: c.confirm})
	if err != nil {
		return err
	}
	PrintSuccess("Committed as ledger entry %s", run.LedgerID)

	v, err := svc.Verify(ctx, run.LedgerID)
	if err != nil {
		return err
	}
	if !v.Valid {
		return fmt.Errorf("ledger entry failed verification: %s", v.Problem)
	}
	PrintSuccess("Commit hash verified: %s", v.CommitHash)
	return nil
}

func readEvent(path string) (domain.EventContext, error) {
	var evt domain.EventContext

	data, err := os.ReadFile(path)
	if err != nil {
		return evt, fmt.Errorf("failed to read event file: %w", err)
	}
	if err := json.Unmarshal(data, &evt); err != nil {
		return evt, fmt.Errorf("failed to parse event file: %w", err)
	}
	if err := evt.Validate(); err != nil {
		return evt, err
	}
	return evt, nil
}

func printRun(run *allocation.Run) {
	out := run.Outcome

	PrintHeader(fmt.Sprintf("Run %s (%s)", run.ID, run.State))
	fmt.Printf("ceiling %s  usage %s  band %s -> %s\n", out.Ceiling, out.Usage, out.PreBand, out.Band)
	fmt.Printf("grid cost %s  final cost %s  trimmed %s\n", out.Grid.TotalCost, out.FinalCost, out.TrimAmount)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tROUND\tTIER\tCODE\tCOST")
	for _, row := range out.Grid.Cells {
		for _, cell := range row {
			code := cell.Code
			if cell.Gap {
				code = "-"
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", cell.Rank, cell.Round, cell.Tier, code, cell.UnitCost)
		}
	}
	_ = w.Flush()

	if len(out.Tags) > 0 {
		PrintWarning("tags: %v", out.Tags)
	}
	fmt.Printf("preview hash %s\n", out.PreviewHash)
}
