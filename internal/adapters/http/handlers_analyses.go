package web

import (
	"net/http"
	"strconv"

	"courtside/internal/application/orchestrators"
	"courtside/internal/application/projections"
	"courtside/internal/domain/analysis"
)

const defaultAnalysisLimit = 50

// handleListAnalyses handles GET /api/analyses?player_id=&limit=
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		list []analysis.Analysis
		err  error
	)
	if playerID := q.Get("player_id"); playerID != "" {
		list, err = s.stores.AnalysisStore.ListByPlayerID(r.Context(), playerID)
	} else {
		limit := defaultAnalysisLimit
		if n, perr := strconv.Atoi(q.Get("limit")); perr == nil && n > 0 && n <= 200 {
			limit = n
		}
		list, err = s.stores.AnalysisStore.List(r.Context(), limit)
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": toAnalysesJSON(list)})
}

// handleStartAnalysis handles POST /api/analyses
// Answers 202 with the processing analysis; poll GET /api/analyses/{id} for the result.
func (s *Server) handleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.svc.Analyses == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "video analysis is not available"})
		return
	}
	var req struct {
		PlayerID     string `json:"player_id"`
		VideoURI     string `json:"video_uri"`
		VideoType    string `json:"video_type"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := strictDecode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	a, err := s.svc.Analyses.Start(r.Context(), orchestrators.StartAnalysisInput{
		PlayerID:     req.PlayerID,
		VideoURI:     req.VideoURI,
		VideoType:    req.VideoType,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toAnalysisJSON(a))
}

// handleGetAnalysis handles GET /api/analyses/{id}
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.stores.AnalysisStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalysisJSON(a))
}

// handleAnalysisOverview handles GET /api/analyses/overview
func (s *Server) handleAnalysisOverview(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetAnalysisOverview(r.Context(), projections.GetAnalysisOverviewDeps{
		AnalysisStore: s.stores.AnalysisStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":         result.Total,
		"completed":     result.Completed,
		"processing":    result.Processing,
		"failed":        result.Failed,
		"average_score": result.AverageScore,
		"recent":        toAnalysesJSON(result.Recent),
	})
}
