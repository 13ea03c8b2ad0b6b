package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"courtside/internal/domain/player"
)

// PlayerStore defines the player persistence used by the roster orchestrators.
type PlayerStore interface {
	GetByID(ctx context.Context, id string) (player.Player, error)
	Save(ctx context.Context, p player.Player) error
	Delete(ctx context.Context, id string) error
}

// ScheduledSessionCounter reports how many scheduled sessions reference a player.
type ScheduledSessionCounter interface {
	CountScheduledForPlayer(ctx context.Context, playerID string) (int, error)
}

// PlayerInput carries the editable player fields.
type PlayerInput struct {
	Name     string
	Email    string
	Phone    string
	Level    string
	ImageURL string
}

func (in PlayerInput) applyTo(p *player.Player) {
	p.Name = strings.TrimSpace(in.Name)
	p.Email = strings.TrimSpace(in.Email)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Level = in.Level
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	if p.Level == "" {
		p.Level = player.LevelBeginner
	}
}

// RegisterPlayerDeps holds dependencies for RegisterPlayer.
type RegisterPlayerDeps struct {
	PlayerStore PlayerStore
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteRegisterPlayer adds a player to the roster.
// PRE: Name non-empty; Level empty or valid; Email empty or contains '@'
// POST: Player persisted with a fresh ID; Level defaults to Beginner
func ExecuteRegisterPlayer(ctx context.Context, input PlayerInput, deps RegisterPlayerDeps) (player.Player, error) {
	p := player.Player{
		ID:        deps.GenerateID(),
		CreatedAt: deps.Now(),
	}
	input.applyTo(&p)
	if err := p.Validate(); err != nil {
		return player.Player{}, err
	}
	if err := deps.PlayerStore.Save(ctx, p); err != nil {
		return player.Player{}, err
	}
	slog.Info("roster_event", "event", "player_registered", "player_id", p.ID, "level", p.Level)
	return p, nil
}

// UpdatePlayerDeps holds dependencies for UpdatePlayer.
type UpdatePlayerDeps struct {
	PlayerStore PlayerStore
}

// ExecuteUpdatePlayer replaces the editable fields of an existing player.
// PRE: id names an existing player
// POST: ID and CreatedAt unchanged; other fields from input
func ExecuteUpdatePlayer(ctx context.Context, id string, input PlayerInput, deps UpdatePlayerDeps) (player.Player, error) {
	p, err := deps.PlayerStore.GetByID(ctx, id)
	if err != nil {
		return player.Player{}, err
	}
	input.applyTo(&p)
	if err := p.Validate(); err != nil {
		return player.Player{}, err
	}
	if err := deps.PlayerStore.Save(ctx, p); err != nil {
		return player.Player{}, err
	}
	slog.Info("roster_event", "event", "player_updated", "player_id", p.ID)
	return p, nil
}

// DeletePlayerDeps holds dependencies for DeletePlayer.
type DeletePlayerDeps struct {
	PlayerStore  PlayerStore
	SessionStore ScheduledSessionCounter
}

// ExecuteDeletePlayer removes a player from the roster.
// PRE: id names an existing player
// POST: player removed; their analyses and plans go with them
// INVARIANT: a player referenced by a scheduled session is never deleted
func ExecuteDeletePlayer(ctx context.Context, id string, deps DeletePlayerDeps) error {
	if _, err := deps.PlayerStore.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := deps.SessionStore.CountScheduledForPlayer(ctx, id)
	if err != nil {
		return fmt.Errorf("count sessions for player %s: %w", id, err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %d scheduled", player.ErrHasSessions, n)
	}
	if err := deps.PlayerStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("roster_event", "event", "player_deleted", "player_id", id)
	return nil
}
