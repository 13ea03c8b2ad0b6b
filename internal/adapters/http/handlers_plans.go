package web

import (
	"net/http"

	"courtside/internal/adapters/email"
	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
)

// handleListPlans handles GET /api/plans
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetPlanSummary(r.Context(), projections.GetPlanSummaryDeps{PlanStore: s.stores.PlanStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plans":    toPlansJSON(result.Plans),
		"total":    result.Total,
		"athletes": result.Athletes,
	})
}

// handleGeneratePlan handles POST /api/plans {player_id}
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tp, err := orchestrators.ExecuteGeneratePlan(r.Context(), req.PlayerID, orchestrators.GeneratePlanDeps{
		PlayerLookup: s.stores.PlayerStore,
		PlanStore:    s.stores.PlanStore,
		Generator:    s.svc.Generator,
		Metrics:      s.svc.Metrics,
		GenerateID:   s.opts.GenerateID,
		Now:          s.opts.Now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanJSON(tp))
}

// handleGetPlan handles GET /api/plans/{id}
// With ?format=markdown or ?format=html the rendered plan is returned instead of JSON.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	tp, err := s.stores.PlanStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(tp.Markdown()))
	case "html":
		html, err := email.RenderMarkdown(tp.Markdown())
		if err != nil {
			internalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	default:
		writeJSON(w, http.StatusOK, toPlanJSON(tp))
	}
}

// handleEmailPlan handles POST /api/plans/{id}/email
// The email is queued; delivery happens on the outbox schedule.
func (s *Server) handleEmailPlan(w http.ResponseWriter, r *http.Request) {
	entry, err := orchestrators.ExecuteEmailPlan(r.Context(), r.PathValue("id"), orchestrators.EmailPlanDeps{
		PlanStore:    s.stores.PlanStore,
		PlayerLookup: s.stores.PlayerStore,
		OutboxStore:  s.stores.OutboxStore,
		GenerateID:   s.opts.GenerateID,
		Now:          s.opts.Now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toOutboxJSON(entry))
}
