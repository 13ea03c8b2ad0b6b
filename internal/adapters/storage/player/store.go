package player

import (
	"context"

	domain "courtside/internal/domain/player"
)

// Store persists Player state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Player, error)
	Save(ctx context.Context, value domain.Player) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Player, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	CountByLevel(ctx context.Context) (map[string]int, error)
}

// ListFilter carries filtering parameters for List and Count.
// Limit <= 0 means no limit.
type ListFilter struct {
	Limit  int
	Offset int
	Level  string
	Search string // case-insensitive match on name or email
}
