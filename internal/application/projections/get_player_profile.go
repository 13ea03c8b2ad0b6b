package projections

import (
	"context"

	"courtside/internal/domain/analysis"
	"courtside/internal/domain/calendar"
	"courtside/internal/domain/plan"
	"courtside/internal/domain/player"
	"courtside/internal/domain/session"
)

// GetPlayerProfileQuery carries query parameters.
type GetPlayerProfileQuery struct {
	PlayerID string
	Today    calendar.Date
}

// GetPlayerProfileResult carries the query result.
type GetPlayerProfileResult struct {
	Player            player.Player
	UpcomingSessions  []session.Session // scheduled, today or later
	CompletedSessions int
	Analyses          []analysis.Analysis
	Plans             []plan.TrainingPlan
}

// GetPlayerProfileDeps holds dependencies for GetPlayerProfile.
type GetPlayerProfileDeps struct {
	PlayerStore   PlayerLookup
	SessionStore  SessionStore
	AnalysisStore AnalysisStore // optional: nil skips analysis history
	PlanStore     PlanStore     // optional: nil skips plans
}

// QueryGetPlayerProfile retrieves a player with their schedule and history.
// PRE: PlayerID is non-empty
// POST: returns player.ErrNotFound (wrapped) for an unknown player
// POST: UpcomingSessions are ordered by (date, start time)
func QueryGetPlayerProfile(ctx context.Context, query GetPlayerProfileQuery, deps GetPlayerProfileDeps) (GetPlayerProfileResult, error) {
	p, err := deps.PlayerStore.GetByID(ctx, query.PlayerID)
	if err != nil {
		return GetPlayerProfileResult{}, err
	}
	result := GetPlayerProfileResult{Player: p}

	sessions, err := deps.SessionStore.ListByPlayer(ctx, p.ID)
	if err != nil {
		return GetPlayerProfileResult{}, err
	}
	for _, s := range sessions {
		switch {
		case s.Status == session.StatusCompleted:
			result.CompletedSessions++
		case s.Status == session.StatusScheduled && !s.Date.Before(query.Today):
			result.UpcomingSessions = append(result.UpcomingSessions, s)
		}
	}
	session.SortByDateTime(result.UpcomingSessions)

	if deps.AnalysisStore != nil {
		if result.Analyses, err = deps.AnalysisStore.ListByPlayerID(ctx, p.ID); err != nil {
			return GetPlayerProfileResult{}, err
		}
	}
	if deps.PlanStore != nil {
		if result.Plans, err = deps.PlanStore.ListByPlayerID(ctx, p.ID); err != nil {
			return GetPlayerProfileResult{}, err
		}
	}
	return result, nil
}
