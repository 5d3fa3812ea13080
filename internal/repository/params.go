package repository

import (
	"context"

	"github.com/osse101/prizegrid/internal/domain"
)

// Parameters stores the single economic parameter snapshot.
type Parameters interface {
	// GetParameters returns nil with no error when nothing was saved yet.
	GetParameters(ctx context.Context) (*domain.EconomicParameters, error)
	SaveParameters(ctx context.Context, params domain.EconomicParameters) error
}
