package projections

import (
	"context"

	"courtside/internal/domain/calendar"
	"courtside/internal/domain/session"
)

// GetAgendaQuery carries query parameters.
type GetAgendaQuery struct {
	Selection calendar.Selection
	Month     calendar.Month // visible month, for marked dates
}

// AgendaEntry is a session with its players' display names.
type AgendaEntry struct {
	Session     session.Session
	PlayerNames []string
}

// GetAgendaResult carries the query result.
type GetAgendaResult struct {
	Entries     []AgendaEntry
	MarkedDates []calendar.Date // ascending, within Month
}

// GetAgendaDeps holds dependencies for GetAgenda.
type GetAgendaDeps struct {
	SessionStore SessionStore
	PlayerLookup PlayerLookup
}

// QueryGetAgenda retrieves the sessions inside the selection and the days of
// the visible month that carry a session.
// PRE: Selection satisfies its invariants
// POST: Entries are ordered by (date, start time); empty when the selection has no start
// POST: MarkedDates holds each day of Month with at least one session, ascending
func QueryGetAgenda(ctx context.Context, query GetAgendaQuery, deps GetAgendaDeps) (GetAgendaResult, error) {
	from, to := query.Month.First(), query.Month.Last()
	if !query.Selection.Start.IsZero() {
		if query.Selection.Start.Before(from) {
			from = query.Selection.Start
		}
		if last := query.Selection.LastDay(); last.After(to) {
			to = last
		}
	}

	sessions, err := deps.SessionStore.ListByDateRange(ctx, from, to)
	if err != nil {
		return GetAgendaResult{}, err
	}

	var result GetAgendaResult
	names := newNameResolver(deps.PlayerLookup)
	for _, s := range session.Agenda(query.Selection, sessions) {
		playerNames, err := names.resolve(ctx, s.PlayerIDs)
		if err != nil {
			return GetAgendaResult{}, err
		}
		result.Entries = append(result.Entries, AgendaEntry{Session: s, PlayerNames: playerNames})
	}

	marked := session.MarkedDates(sessions)
	for _, cell := range calendar.Grid(query.Month) {
		if !cell.Blank && marked[cell.Date] {
			result.MarkedDates = append(result.MarkedDates, cell.Date)
		}
	}
	return result, nil
}
