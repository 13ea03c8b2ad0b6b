package analysis

import (
	"context"
	"time"

	domain "courtside/internal/domain/analysis"
)

// Store persists Analysis state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Analysis, error)
	Save(ctx context.Context, value domain.Analysis) error
	List(ctx context.Context, limit int) ([]domain.Analysis, error)
	ListByPlayerID(ctx context.Context, playerID string) ([]domain.Analysis, error)
	ListProcessingBefore(ctx context.Context, cutoff time.Time) ([]domain.Analysis, error)
}
