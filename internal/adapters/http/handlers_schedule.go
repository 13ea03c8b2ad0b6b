package web

import (
	"errors"
	"net/http"

	"courtside/internal/adapters/http/middleware"
	"courtside/internal/application/coordinator"
	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
	"courtside/internal/domain/booking"
	"courtside/internal/domain/calendar"
)

// coordinatorFor returns the calling session's coordinator.
// PRE: the route is behind RequireAuth
func (s *Server) coordinatorFor(r *http.Request) *coordinator.Coordinator {
	token, _ := middleware.TokenFromContext(r.Context())
	return s.svc.Coordinators.Get(token)
}

// writeSchedule renders snap together with the agenda it implies.
func (s *Server) writeSchedule(w http.ResponseWriter, r *http.Request, status int, snap coordinator.Snapshot) {
	view, err := s.scheduleView(r, snap)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, status, view)
}

func (s *Server) scheduleView(r *http.Request, snap coordinator.Snapshot) (scheduleJSON, error) {
	agenda, err := projections.QueryGetAgenda(r.Context(), projections.GetAgendaQuery{
		Selection: snap.Selection,
		Month:     snap.VisibleMonth,
	}, projections.GetAgendaDeps{
		SessionStore: s.stores.SessionStore,
		PlayerLookup: s.stores.PlayerStore,
	})
	if err != nil {
		return scheduleJSON{}, err
	}
	return toScheduleJSON(snap, agenda), nil
}

// handleSchedule handles GET /api/schedule
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	s.writeSchedule(w, r, http.StatusOK, s.coordinatorFor(r).Snapshot())
}

// handleScheduleMonth handles POST /api/schedule/month {direction}
func (s *Server) handleScheduleMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.coordinatorFor(r).NavigateMonth(req.Direction)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSchedule(w, r, http.StatusOK, snap)
}

// handleScheduleTap handles POST /api/schedule/tap {date}
// Taps on past days leave the selection unchanged.
func (s *Server) handleScheduleTap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	d, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSchedule(w, r, http.StatusOK, s.coordinatorFor(r).TapDate(d))
}

// handleScheduleFocus handles POST /api/schedule/focus {phase}
func (s *Server) handleScheduleFocus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phase string `json:"phase"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	phase, err := calendar.ParsePhase(req.Phase)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSchedule(w, r, http.StatusOK, s.coordinatorFor(r).Focus(phase))
}

// handleScheduleReset handles POST /api/schedule/reset
func (s *Server) handleScheduleReset(w http.ResponseWriter, r *http.Request) {
	s.writeSchedule(w, r, http.StatusOK, s.coordinatorFor(r).ResetToSingleDay())
}

// handleDraftPlayer handles POST /api/schedule/draft/player {player_id}
// Adding a player checks the roster; removing one does not, so a player
// deleted mid-draft can still be deselected.
func (s *Server) handleDraftPlayer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.coordinatorFor(r).ToggleRosterPlayer(req.PlayerID, func(id string) error {
		_, err := s.stores.PlayerStore.GetByID(r.Context(), id)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSchedule(w, r, http.StatusOK, snap)
}

// handleDraftType handles POST /api/schedule/draft/type {type}
func (s *Server) handleDraftType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.coordinatorFor(r).ChangeType(req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSchedule(w, r, http.StatusOK, snap)
}

// handleDraftTime handles POST /api/schedule/draft/time {slot, value}
func (s *Server) handleDraftTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot  string `json:"slot"`
		Value string `json:"value"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.coordinatorFor(r).ChangeTime(req.Slot, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSchedule(w, r, http.StatusOK, snap)
}

// handleDraftNotes handles POST /api/schedule/draft/notes {notes}
func (s *Server) handleDraftNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	snap, err := s.coordinatorFor(r).SetNotes(req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeSchedule(w, r, http.StatusOK, snap)
}

// handleScheduleBook handles POST /api/schedule/book
// A refused booking answers 422 with the reason and the unchanged schedule.
func (s *Server) handleScheduleBook(w http.ResponseWriter, r *http.Request) {
	sessions, snap, err := s.coordinatorFor(r).Submit(r.Context(), orchestrators.BookSessionsDeps{
		SessionStore: s.stores.SessionStore,
		PlayerLookup: s.stores.PlayerStore,
		OutboxStore:  s.stores.OutboxStore,
		Metrics:      s.svc.Metrics,
		GenerateID:   s.opts.GenerateID,
		Now:          s.opts.Now,
	})
	if errors.Is(err, booking.ErrInvalidSelection) {
		view, verr := s.scheduleView(r, snap)
		if verr != nil {
			internalError(w, verr)
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    coordinator.Reason(err),
			"schedule": view,
		})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	view, err := s.scheduleView(r, snap)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessions": toSessionsJSON(sessions),
		"schedule": view,
	})
}

// handleScheduleClose handles POST /api/schedule/close
func (s *Server) handleScheduleClose(w http.ResponseWriter, r *http.Request) {
	s.writeSchedule(w, r, http.StatusOK, s.coordinatorFor(r).CloseBooking())
}
