package web

import (
	"net/http"
	"strconv"

	"courtside/internal/domain/outbox"
)

// handleAdminOutboxList handles GET /api/admin/outbox?status=failed|pending&limit=
func (s *Server) handleAdminOutboxList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	var (
		entries []outbox.Entry
		err     error
	)
	switch status := r.URL.Query().Get("status"); status {
	case "", outbox.StatusFailed:
		entries, err = s.stores.OutboxStore.ListFailed(r.Context(), limit)
	case outbox.StatusPending:
		entries, err = s.stores.OutboxStore.ListPending(r.Context(), limit)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be 'failed' or 'pending'"})
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]outboxJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toOutboxJSON(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out})
}

// handleAdminOutboxRetry handles POST /api/admin/outbox/{id}/retry
func (s *Server) handleAdminOutboxRetry(w http.ResponseWriter, r *http.Request) {
	if s.svc.Outbox == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "outbox processing is not available"})
		return
	}
	entry, err := s.svc.Outbox.ProcessSingle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOutboxJSON(entry))
}

// handleAdminOutboxAbandon handles POST /api/admin/outbox/{id}/abandon
func (s *Server) handleAdminOutboxAbandon(w http.ResponseWriter, r *http.Request) {
	if s.svc.Outbox == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "outbox processing is not available"})
		return
	}
	if err := s.svc.Outbox.AbandonEntry(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
