package session

import (
	"context"

	"courtside/internal/domain/calendar"
	domain "courtside/internal/domain/session"
)

// Store persists training sessions. The booking flow only appends; status
// changes are the one permitted mutation.
type Store interface {
	Append(ctx context.Context, sessions []domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
	ListByDateRange(ctx context.Context, from, to calendar.Date) ([]domain.Session, error)
	ListByPlayer(ctx context.Context, playerID string) ([]domain.Session, error)
	CountScheduledForPlayer(ctx context.Context, playerID string) (int, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
