package repository

import (
	"context"

	"github.com/osse101/prizegrid/internal/domain"
)

// Events is the event store. It receives the committed grid through AllocationTx.
type Events interface {
	GetEvent(ctx context.Context, id string) (*domain.EventContext, error)
	CreateEvent(ctx context.Context, evt domain.EventContext) error
	GetEventGrid(ctx context.Context, id string) (*domain.PrizeGrid, error)
}
