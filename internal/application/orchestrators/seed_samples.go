package orchestrators

import (
	"context"
	"log/slog"
	"time"

	playerStore "courtside/internal/adapters/storage/player"
	"courtside/internal/domain/calendar"
	"courtside/internal/domain/player"
	"courtside/internal/domain/session"
)

// SampleRosterStore is the player persistence seeding needs.
type SampleRosterStore interface {
	Save(ctx context.Context, p player.Player) error
	Count(ctx context.Context, filter playerStore.ListFilter) (int, error)
}

// SeedSamplesDeps holds dependencies for SeedSamples.
type SeedSamplesDeps struct {
	PlayerStore  SampleRosterStore
	SessionStore SessionAppender
	GenerateID   func() string
	Now          func() time.Time
	Location     *time.Location
}

type samplePlayer struct {
	name, email, phone, level, image string
	daysAgo                          int
}

var samplePlayers = []samplePlayer{
	{"Serena Williams", "serena@tennis.com", "+1 555-0101", player.LevelAdvanced, "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=200&h=200&fit=crop", 90},
	{"Rafael Nadal", "rafa@tennis.com", "+34 555-0202", player.LevelAdvanced, "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=200&h=200&fit=crop", 60},
	{"Emma Raducanu", "emma@tennis.com", "+44 555-0303", player.LevelIntermediate, "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=200&h=200&fit=crop", 30},
	{"Carlos Alcaraz", "carlos@tennis.com", "+34 555-0404", player.LevelAdvanced, "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=200&h=200&fit=crop", 15},
	{"John Smith", "john@tennis.com", "+1 555-0505", player.LevelBeginner, "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=200&h=200&fit=crop", 7},
	{"Maria Garcia", "maria@tennis.com", "+1 555-0606", player.LevelIntermediate, "https://images.unsplash.com/photo-1544005313-94ddf0286df2?w=200&h=200&fit=crop", 45},
	{"David Chen", "david@tennis.com", "+1 555-0707", player.LevelBeginner, "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?w=200&h=200&fit=crop", 20},
}

// ExecuteSeedSamples loads the sample roster and two sessions into an empty database.
// PRE: none
// POST: if the roster was empty it now holds seven players, with a private
// session today and a group session tomorrow; otherwise nothing changes
func ExecuteSeedSamples(ctx context.Context, deps SeedSamplesDeps) error {
	n, err := deps.PlayerStore.Count(ctx, playerStore.ListFilter{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := deps.Now()
	ids := make([]string, len(samplePlayers))
	for i, sp := range samplePlayers {
		p := player.Player{
			ID:        deps.GenerateID(),
			Name:      sp.name,
			Email:     sp.email,
			Phone:     sp.phone,
			Level:     sp.level,
			ImageURL:  sp.image,
			CreatedAt: now.AddDate(0, 0, -sp.daysAgo),
		}
		if err := deps.PlayerStore.Save(ctx, p); err != nil {
			return err
		}
		ids[i] = p.ID
	}

	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	today := calendar.Today(now, loc)
	sessions := []session.Session{
		{
			ID:        deps.GenerateID(),
			PlayerIDs: []string{ids[0]},
			Date:      today,
			StartTime: "10:00",
			EndTime:   "11:00",
			Type:      session.TypePrivate,
			Status:    session.StatusScheduled,
			CreatedAt: now,
		},
		{
			ID:        deps.GenerateID(),
			PlayerIDs: []string{ids[1], ids[3]},
			Date:      today.AddDays(1),
			StartTime: "14:30",
			EndTime:   "16:00",
			Type:      session.TypeGroup,
			Status:    session.StatusScheduled,
			CreatedAt: now,
		},
	}
	if err := deps.SessionStore.Append(ctx, sessions); err != nil {
		return err
	}

	slog.Info("seed_event", "event", "samples_seeded", "players", len(ids), "sessions", len(sessions))
	return nil
}
