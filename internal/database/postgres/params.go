package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/prizegrid/internal/domain"
)

// ParametersRepository implements repository.Parameters for PostgreSQL.
// The snapshot is one JSONB row.
type ParametersRepository struct {
	db *pgxpool.Pool
}

// NewParametersRepository creates a new ParametersRepository
func NewParametersRepository(db *pgxpool.Pool) *ParametersRepository {
	return &ParametersRepository{db: db}
}

// GetParameters returns nil when nothing was saved yet
func (r *ParametersRepository) GetParameters(ctx context.Context) (*domain.EconomicParameters, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT params FROM economic_parameters WHERE id = $1`, parametersRowID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetParameters, err)
	}

	var p domain.EconomicParameters
	if err := decodeJSON(raw, &p, ErrMsgFailedToDecodeParameters); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveParameters replaces the stored snapshot
func (r *ParametersRepository) SaveParameters(ctx context.Context, params domain.EconomicParameters) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveParameters, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO economic_parameters (id, params, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET params = EXCLUDED.params, updated_at = NOW()
	`, parametersRowID, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveParameters, err)
	}
	return nil
}
