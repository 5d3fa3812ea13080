package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Store bundles every PostgreSQL repository over one pool
type Store struct {
	*CatalogRepository
	*ParametersRepository
	*EventRepository
	*LedgerRepository
	*AllocationRepository
	*EventLogRepository
}

// NewStore creates every repository over db
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		CatalogRepository:    NewCatalogRepository(db),
		ParametersRepository: NewParametersRepository(db),
		EventRepository:      NewEventRepository(db),
		LedgerRepository:     NewLedgerRepository(db),
		AllocationRepository: NewAllocationRepository(db),
		EventLogRepository:   NewEventLogRepository(db),
	}
}
