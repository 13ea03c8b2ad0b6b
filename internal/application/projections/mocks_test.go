package projections

import (
	"context"
	"errors"
	"fmt"
	"strings"

	playerStore "courtside/internal/adapters/storage/player"
	"courtside/internal/domain/analysis"
	"courtside/internal/domain/calendar"
	"courtside/internal/domain/plan"
	"courtside/internal/domain/player"
	"courtside/internal/domain/session"
)

var errBoom = errors.New("boom")

type mockPlayerStore struct {
	players   []player.Player // newest first
	lookups   int
	lookupErr error
	lastList  playerStore.ListFilter
}

func (m *mockPlayerStore) GetByID(_ context.Context, id string) (player.Player, error) {
	m.lookups++
	if m.lookupErr != nil {
		return player.Player{}, m.lookupErr
	}
	for _, p := range m.players {
		if p.ID == id {
			return p, nil
		}
	}
	return player.Player{}, fmt.Errorf("player %s: %w", id, player.ErrNotFound)
}

func (m *mockPlayerStore) matching(filter playerStore.ListFilter) []player.Player {
	var out []player.Player
	for _, p := range m.players {
		if filter.Level != "" && p.Level != filter.Level {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m *mockPlayerStore) List(_ context.Context, filter playerStore.ListFilter) ([]player.Player, error) {
	m.lastList = filter
	out := m.matching(filter)
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *mockPlayerStore) Count(_ context.Context, filter playerStore.ListFilter) (int, error) {
	return len(m.matching(filter)), nil
}

func (m *mockPlayerStore) CountByLevel(_ context.Context) (map[string]int, error) {
	counts := map[string]int{}
	for _, p := range m.players {
		counts[p.Level]++
	}
	return counts, nil
}

type mockSessionStore struct {
	sessions []session.Session
	lastFrom calendar.Date
	lastTo   calendar.Date
}

func (m *mockSessionStore) ListByDateRange(_ context.Context, from, to calendar.Date) ([]session.Session, error) {
	m.lastFrom, m.lastTo = from, to
	var out []session.Session
	for _, s := range m.sessions {
		if !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockSessionStore) ListByPlayer(_ context.Context, playerID string) ([]session.Session, error) {
	var out []session.Session
	for _, s := range m.sessions {
		if s.HasPlayer(playerID) {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockAnalysisStore struct {
	analyses []analysis.Analysis
	err      error
}

func (m *mockAnalysisStore) List(_ context.Context, limit int) ([]analysis.Analysis, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.analyses) > limit {
		return m.analyses[:limit], nil
	}
	return m.analyses, nil
}

func (m *mockAnalysisStore) ListByPlayerID(_ context.Context, playerID string) ([]analysis.Analysis, error) {
	var out []analysis.Analysis
	for _, a := range m.analyses {
		if a.PlayerID == playerID {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockPlanStore struct {
	plans []plan.TrainingPlan
}

func (m *mockPlanStore) List(_ context.Context, limit int) ([]plan.TrainingPlan, error) {
	if len(m.plans) > limit {
		return m.plans[:limit], nil
	}
	return m.plans, nil
}

func (m *mockPlanStore) ListByPlayerID(_ context.Context, playerID string) ([]plan.TrainingPlan, error) {
	var out []plan.TrainingPlan
	for _, p := range m.plans {
		if p.PlayerID == playerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func march(day int) calendar.Date {
	return calendar.NewDate(2024, 3, day)
}

func rosterStore() *mockPlayerStore {
	return &mockPlayerStore{players: []player.Player{
		{ID: "p1", Name: "Serena Williams", Level: player.LevelAdvanced},
		{ID: "p2", Name: "Rafael Nadal", Level: player.LevelAdvanced},
		{ID: "p3", Name: "Emma Raducanu", Level: player.LevelIntermediate},
		{ID: "p4", Name: "John Smith", Level: player.LevelBeginner},
	}}
}

func sess(id string, date calendar.Date, start string, players ...string) session.Session {
	return session.Session{ID: id, PlayerIDs: players, Date: date, StartTime: start, EndTime: "23:00",
		Type: session.TypeGroup, Status: session.StatusScheduled}
}
