package handler

import (
	"encoding/json"
	"net/http"

	"adaptiq/internal/model"
	"adaptiq/internal/service"
	"adaptiq/internal/transport/rest/middleware"
)

// QuizHandler handles the assessment endpoints
type QuizHandler struct {
	assessSvc *service.AssessmentService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(assessSvc *service.AssessmentService) *QuizHandler {
	return &QuizHandler{assessSvc: assessSvc}
}

// NextQuestion handles GET /api/v1/quiz/next
func (h *QuizHandler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID := r.URL.Query().Get("sessionId")

	resp, err := h.assessSvc.NextQuestion(r.Context(), userID, sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SubmitAnswer handles POST /api/v1/quiz/answer
func (h *QuizHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req model.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.assessSvc.SubmitAnswer(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Metrics handles GET /api/v1/quiz/metrics
func (h *QuizHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	resp, err := h.assessSvc.Metrics(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
