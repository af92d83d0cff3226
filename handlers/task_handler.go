package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tendrilAPI/internal/types/task"
	"tendrilAPI/middleware"
	"tendrilAPI/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService *services.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.taskService.ListTasks(ctx, middleware.GetUserID(ctx))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Task not found")
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req task.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.taskService.CreateTask(ctx, middleware.GetUserID(ctx), &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Task not found")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req task.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.taskService.UpdateTask(ctx, middleware.GetUserID(ctx), mux.Vars(r)["taskID"], &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Task not found")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	taskID := mux.Vars(r)["taskID"]
	if err := h.taskService.DeleteTask(ctx, middleware.GetUserID(ctx), taskID); err != nil {
		respondWithServiceError(w, h.logger, err, "Task not found")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// SetCompletion handles PUT /tasks/{taskID}/complete/{date}?completed=true|false.
// A missing completed parameter means true.
func (h *TaskHandler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	vars := mux.Vars(r)
	date, err := parseDate(vars["date"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	completed := true
	if raw := r.URL.Query().Get("completed"); raw != "" {
		completed, err = strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'completed' must be true or false")
			return
		}
	}

	update, err := h.taskService.SetCompletion(ctx, middleware.GetUserID(ctx), vars["taskID"], date, completed)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Task not found")
		return
	}

	respondWithJSON(w, http.StatusOK, update)
}
