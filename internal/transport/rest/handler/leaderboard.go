package handler

import (
	"net/http"
	"strconv"

	"adaptiq/internal/model"
	"adaptiq/internal/service"
	"adaptiq/internal/transport/rest/middleware"
)

// LeaderboardHandler handles the ranking endpoints
type LeaderboardHandler struct {
	lbSvc *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(lbSvc *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{lbSvc: lbSvc}
}

// Score handles GET /api/v1/leaderboard/score
func (h *LeaderboardHandler) Score(w http.ResponseWriter, r *http.Request) {
	h.board(w, r, model.LeaderboardScore)
}

// Streak handles GET /api/v1/leaderboard/streak
func (h *LeaderboardHandler) Streak(w http.ResponseWriter, r *http.Request) {
	h.board(w, r, model.LeaderboardStreak)
}

func (h *LeaderboardHandler) board(w http.ResponseWriter, r *http.Request, kind string) {
	userID := middleware.GetUserID(r.Context())

	limit := int64(service.DefaultLeaderboardLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	resp, err := h.lbSvc.Board(r.Context(), kind, limit, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
