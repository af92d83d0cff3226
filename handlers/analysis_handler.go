package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"tendrilAPI/internal/types/analysis"
	"tendrilAPI/middleware"
	"tendrilAPI/services"
)

type AnalysisHandler struct {
	analysisService *services.AnalysisService
	logger          *zap.Logger
}

func NewAnalysisHandler(analysisService *services.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		logger:          logger,
	}
}

type rateLimitedResponse struct {
	Error             string `json:"error"`
	Message           string `json:"message"`
	RemainingRequests int    `json:"remaining_requests"`
	WindowSeconds     int    `json:"window_seconds"`
}

// Analyze serves both /posts/analyze and /comments/analyze. The identity
// comes from the request context; a user_id in the body is only used when
// the request is otherwise anonymous.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	var req analysis.AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := middleware.GetUserID(ctx)
	if userID == middleware.AnonymousUserID && strings.TrimSpace(req.UserID) != "" {
		userID = strings.TrimSpace(req.UserID)
	}

	result, err := h.analysisService.Analyze(ctx, userID, req.Content)
	if errors.Is(err, services.ErrRateLimited) {
		limits := h.analysisService.Limits(userID)
		respondWithJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
			Error:             "Rate limit exceeded",
			Message:           fmt.Sprintf("You can analyze up to %d texts every %d seconds. Please try again later.", limits.MaxRequests, limits.WindowSeconds),
			RemainingRequests: 0,
			WindowSeconds:     limits.WindowSeconds,
		})
		return
	}
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Not found")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
