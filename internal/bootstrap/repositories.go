package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/prizegrid/internal/config"
	"github.com/osse101/prizegrid/internal/database/memory"
	"github.com/osse101/prizegrid/internal/database/postgres"
	"github.com/osse101/prizegrid/internal/repository"
)

// Repositories holds the store-facing interfaces the services depend on.
// Both drivers implement all of them on a single store value.
type Repositories struct {
	Catalog    repository.Catalog
	Parameters repository.Parameters
	Events     repository.Events
	Ledger     repository.Ledger
	Allocation repository.Allocation
	EventLog   repository.EventLog
}

// InitializeRepositories builds the repositories for the configured store
// driver. dbPool is only consulted for the postgres driver.
func InitializeRepositories(driver string, dbPool *pgxpool.Pool) (*Repositories, error) {
	switch driver {
	case config.StoreDriverPostgres:
		if dbPool == nil {
			return nil, errors.New(ErrMsgPoolRequired)
		}
		slog.Info(LogMsgUsingPostgresStore)
		return fromStore(postgres.NewStore(dbPool)), nil
	case config.StoreDriverMemory:
		slog.Warn(LogMsgUsingMemoryStore)
		return fromStore(memory.New()), nil
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreDriver, driver)
	}
}

type fullStore interface {
	repository.Catalog
	repository.Parameters
	repository.Events
	repository.Ledger
	repository.Allocation
	repository.EventLog
}

func fromStore(s fullStore) *Repositories {
	return &Repositories{
		Catalog:    s,
		Parameters: s,
		Events:     s,
		Ledger:     s,
		Allocation: s,
		EventLog:   s,
	}
}
