package projections

import (
	"context"

	playerStore "courtside/internal/adapters/storage/player"
	"courtside/internal/domain/analysis"
	"courtside/internal/domain/calendar"
	"courtside/internal/domain/plan"
	"courtside/internal/domain/player"
	"courtside/internal/domain/session"
)

// PlayerLookup resolves a single player.
type PlayerLookup interface {
	GetByID(ctx context.Context, id string) (player.Player, error)
}

// PlayerStore interface for roster queries.
type PlayerStore interface {
	PlayerLookup
	List(ctx context.Context, filter playerStore.ListFilter) ([]player.Player, error)
	Count(ctx context.Context, filter playerStore.ListFilter) (int, error)
	CountByLevel(ctx context.Context) (map[string]int, error)
}

// SessionStore interface for schedule queries.
type SessionStore interface {
	ListByDateRange(ctx context.Context, from, to calendar.Date) ([]session.Session, error)
	ListByPlayer(ctx context.Context, playerID string) ([]session.Session, error)
}

// AnalysisStore interface for analysis queries.
type AnalysisStore interface {
	List(ctx context.Context, limit int) ([]analysis.Analysis, error)
	ListByPlayerID(ctx context.Context, playerID string) ([]analysis.Analysis, error)
}

// PlanStore interface for training plan queries.
type PlanStore interface {
	List(ctx context.Context, limit int) ([]plan.TrainingPlan, error)
	ListByPlayerID(ctx context.Context, playerID string) ([]plan.TrainingPlan, error)
}
