package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tendrilAPI/middleware"
	"tendrilAPI/services"
)

type CalendarHandler struct {
	taskService   *services.TaskService
	streakService *services.StreakService
	logger        *zap.Logger
}

func NewCalendarHandler(taskService *services.TaskService, streakService *services.StreakService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		taskService:   taskService,
		streakService: streakService,
		logger:        logger,
	}
}

// GetDay lists the tasks due on {date} with their completion for that day.
func (h *CalendarHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	date, err := parseDate(mux.Vars(r)["date"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	day, err := h.taskService.TasksForDate(ctx, middleware.GetUserID(ctx), date)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Not found")
		return
	}

	respondWithJSON(w, http.StatusOK, day)
}

// GetMonth marks the streak days of ?year=&month=, defaulting to the current
// month.
func (h *CalendarHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	today := h.streakService.Today()
	year, month := today.Year, int(today.Month)

	var err error
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err = strconv.Atoi(raw); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid year parameter")
			return
		}
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid month parameter")
			return
		}
	}

	calendar, err := h.streakService.GetCalendar(ctx, middleware.GetUserID(ctx), year, month)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Not found")
		return
	}

	respondWithJSON(w, http.StatusOK, calendar)
}
