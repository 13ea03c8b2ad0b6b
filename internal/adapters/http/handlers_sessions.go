package web

import (
	"net/http"

	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
	"courtside/internal/domain/calendar"
)

// defaultSessionWindow is how many days GET /api/sessions covers without a "to".
const defaultSessionWindow = 30

// handleListSessions handles GET /api/sessions?from=YYYY-MM-DD&to=YYYY-MM-DD
// from defaults to today and to to from plus thirty days.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := calendar.Today(s.opts.Now(), s.opts.Location)
	if v := q.Get("from"); v != "" {
		d, err := calendar.ParseDate(v)
		if err != nil {
			writeError(w, err)
			return
		}
		from = d
	}
	to := from.AddDays(defaultSessionWindow)
	if v := q.Get("to"); v != "" {
		d, err := calendar.ParseDate(v)
		if err != nil {
			writeError(w, err)
			return
		}
		to = d
	}

	result, err := projections.QueryGetSessions(r.Context(), projections.GetSessionsQuery{From: from, To: to},
		projections.GetSessionsDeps{
			SessionStore: s.stores.SessionStore,
			PlayerLookup: s.stores.PlayerStore,
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":     from.String(),
		"to":       to.String(),
		"sessions": toAgendaJSON(result.Sessions),
	})
}

// handleSessionStatus handles POST /api/sessions/{id}/status {status}
func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	sess, err := orchestrators.ExecuteUpdateSessionStatus(r.Context(), r.PathValue("id"), req.Status,
		orchestrators.UpdateSessionStatusDeps{SessionStore: s.stores.SessionStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionJSON(sess, nil))
}
