package plan

import (
	"context"

	domain "courtside/internal/domain/plan"
)

// Store persists generated training plans.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.TrainingPlan, error)
	Save(ctx context.Context, value domain.TrainingPlan) error
	List(ctx context.Context, limit int) ([]domain.TrainingPlan, error)
	ListByPlayerID(ctx context.Context, playerID string) ([]domain.TrainingPlan, error)
}
