package handlers

import (
	"context"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"tendrilAPI/internal/streak"
	"tendrilAPI/middleware"
	"tendrilAPI/services"
)

type StreakHandler struct {
	streakService *services.StreakService
	logger        *zap.Logger
}

func NewStreakHandler(streakService *services.StreakService, logger *zap.Logger) *StreakHandler {
	return &StreakHandler{
		streakService: streakService,
		logger:        logger,
	}
}

type completeStreakResponse struct {
	Message  string         `json:"message"`
	Date     civil.Date     `json:"date"`
	Recorded bool           `json:"recorded"`
	Streak   streak.Summary `json:"streak"`
}

func (h *StreakHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.streakService.GetSummary(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Streak not found")
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// CompleteStreak records a manual completion for ?completion_date=, which
// defaults to today.
func (h *StreakHandler) CompleteStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	date := h.streakService.Today()
	if raw := r.URL.Query().Get("completion_date"); raw != "" {
		var err error
		if date, err = parseDate(raw); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	summary, recorded, err := h.streakService.RecordCompletion(ctx, middleware.GetUserID(ctx), date)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Streak not found")
		return
	}

	message := "Streak updated"
	if !recorded {
		message = "Completion already recorded for this date"
	}
	respondWithJSON(w, http.StatusOK, completeStreakResponse{
		Message:  message,
		Date:     date,
		Recorded: recorded,
		Streak:   summary,
	})
}
