package orchestrators

import (
	"context"
	"log/slog"

	"courtside/internal/domain/session"
)

// SessionStatusStore reads and updates a session's status.
type SessionStatusStore interface {
	GetByID(ctx context.Context, id string) (session.Session, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// UpdateSessionStatusDeps holds dependencies for UpdateSessionStatus.
type UpdateSessionStatusDeps struct {
	SessionStore SessionStatusStore
}

// ExecuteUpdateSessionStatus marks a scheduled session completed or cancelled.
// PRE: id names an existing session
// POST: status persisted; no other field changes
// INVARIANT: only Scheduled sessions move, and only to Completed or Cancelled
func ExecuteUpdateSessionStatus(ctx context.Context, id, status string, deps UpdateSessionStatusDeps) (session.Session, error) {
	s, err := deps.SessionStore.GetByID(ctx, id)
	if err != nil {
		return session.Session{}, err
	}
	if err := s.SetStatus(status); err != nil {
		return session.Session{}, err
	}
	if err := deps.SessionStore.UpdateStatus(ctx, id, s.Status); err != nil {
		return session.Session{}, err
	}
	slog.Info("booking_event", "event", "session_status_changed", "session_id", id, "status", s.Status)
	return s, nil
}
