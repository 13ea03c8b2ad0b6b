package projections

import (
	"context"
	"errors"

	"courtside/internal/domain/calendar"
	"courtside/internal/domain/session"
)

// MaxSessionRangeDays bounds a single schedule query.
const MaxSessionRangeDays = 366

// ErrSessionRange is returned for an inverted or oversized date range.
var ErrSessionRange = errors.New("session range must have from <= to and span at most 366 days")

// GetSessionsQuery carries query parameters.
type GetSessionsQuery struct {
	From calendar.Date
	To   calendar.Date
}

// GetSessionsResult carries the query result.
type GetSessionsResult struct {
	Sessions []AgendaEntry
}

// GetSessionsDeps holds dependencies for GetSessions.
type GetSessionsDeps struct {
	SessionStore SessionStore
	PlayerLookup PlayerLookup
}

// QueryGetSessions lists the sessions between two dates with player names.
// PRE: From and To are set
// POST: sessions are ordered by (date, start time)
func QueryGetSessions(ctx context.Context, query GetSessionsQuery, deps GetSessionsDeps) (GetSessionsResult, error) {
	if query.From.IsZero() || query.To.IsZero() || query.To.Before(query.From) ||
		query.From.AddDays(MaxSessionRangeDays).Before(query.To) {
		return GetSessionsResult{}, ErrSessionRange
	}
	sessions, err := deps.SessionStore.ListByDateRange(ctx, query.From, query.To)
	if err != nil {
		return GetSessionsResult{}, err
	}
	session.SortByDateTime(sessions)

	result := GetSessionsResult{Sessions: make([]AgendaEntry, 0, len(sessions))}
	names := newNameResolver(deps.PlayerLookup)
	for _, s := range sessions {
		playerNames, err := names.resolve(ctx, s.PlayerIDs)
		if err != nil {
			return GetSessionsResult{}, err
		}
		result.Sessions = append(result.Sessions, AgendaEntry{Session: s, PlayerNames: playerNames})
	}
	return result, nil
}
