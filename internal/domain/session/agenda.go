package session

import (
	"sort"

	"courtside/internal/domain/calendar"
)

// Agenda returns the sessions falling inside sel, ordered by date then
// start time. The input slice is not modified.
// PRE: none
// POST: result is empty when sel has no start
// POST: sessions with equal (date, start) keep their input order
func Agenda(sel calendar.Selection, all []Session) []Session {
	var out []Session
	for _, s := range all {
		if sel.Contains(s.Date) {
			out = append(out, s)
		}
	}
	SortByDateTime(out)
	return out
}

// SortByDateTime orders sessions by (Date, StartTime) ascending in place.
func SortByDateTime(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if c := sessions[i].Date.Compare(sessions[j].Date); c != 0 {
			return c < 0
		}
		return sessions[i].StartTime < sessions[j].StartTime
	})
}

// MarkedDates returns the set of days that have at least one session.
func MarkedDates(sessions []Session) map[calendar.Date]bool {
	marked := make(map[calendar.Date]bool, len(sessions))
	for _, s := range sessions {
		marked[s.Date] = true
	}
	return marked
}
