package web

import (
	"net/http"

	"courtside/internal/application/listutil"
	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
	"courtside/internal/domain/calendar"
)

type playerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Level    string `json:"level"`
	ImageURL string `json:"image_url"`
}

func (p playerRequest) input() orchestrators.PlayerInput {
	return orchestrators.PlayerInput{
		Name:     p.Name,
		Email:    p.Email,
		Phone:    p.Phone,
		Level:    p.Level,
		ImageURL: p.ImageURL,
	}
}

// handleListPlayers handles GET /api/players?q=&level=&page=&per_page=
func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetPlayerList(r.Context(), projections.GetPlayerListQuery{
		Params: listutil.Parse(r.URL.Query(), "level"),
	}, projections.GetPlayerListDeps{PlayerStore: s.stores.PlayerStore})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"players": toPlayersJSON(result.Players),
		"page":    result.Page,
	})
}

// handlePlayerStats handles GET /api/players/stats
func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetPlayerStats(r.Context(), projections.GetPlayerStatsDeps{PlayerStore: s.stores.PlayerStore})
	if err != nil {
		internalError(w, err)
		return
	}
	byLevel := make(map[string]int, len(result.ByLevel))
	levels := make([]string, 0, len(result.ByLevel))
	for _, lc := range result.ByLevel {
		byLevel[lc.Level] = lc.Count
		levels = append(levels, lc.Level)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":    result.Total,
		"by_level": byLevel,
		"levels":   levels,
	})
}

// handleCreatePlayer handles POST /api/players
func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := orchestrators.ExecuteRegisterPlayer(r.Context(), req.input(), orchestrators.RegisterPlayerDeps{
		PlayerStore: s.stores.PlayerStore,
		GenerateID:  s.opts.GenerateID,
		Now:         s.opts.Now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlayerJSON(p))
}

// handleGetPlayer handles GET /api/players/{id}
// The response carries the player's upcoming sessions, analyses and plans.
func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetPlayerProfile(r.Context(), projections.GetPlayerProfileQuery{
		PlayerID: r.PathValue("id"),
		Today:    calendar.Today(s.opts.Now(), s.opts.Location),
	}, projections.GetPlayerProfileDeps{
		PlayerStore:   s.stores.PlayerStore,
		SessionStore:  s.stores.SessionStore,
		AnalysisStore: s.stores.AnalysisStore,
		PlanStore:     s.stores.PlanStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"player":             toPlayerJSON(result.Player),
		"upcoming_sessions":  toSessionsJSON(result.UpcomingSessions),
		"completed_sessions": result.CompletedSessions,
		"analyses":           toAnalysesJSON(result.Analyses),
		"plans":              toPlansJSON(result.Plans),
	})
}

// handleUpdatePlayer handles PUT /api/players/{id}
func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := orchestrators.ExecuteUpdatePlayer(r.Context(), r.PathValue("id"), req.input(), orchestrators.UpdatePlayerDeps{
		PlayerStore: s.stores.PlayerStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlayerJSON(p))
}

// handleDeletePlayer handles DELETE /api/players/{id}
func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeletePlayer(r.Context(), r.PathValue("id"), orchestrators.DeletePlayerDeps{
		PlayerStore:  s.stores.PlayerStore,
		SessionStore: s.stores.SessionStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
