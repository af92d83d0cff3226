package handlers

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tendrilAPI/internal/streak"
	"tendrilAPI/internal/types/calendar"
	"tendrilAPI/middleware"
	"tendrilAPI/services"
)

const dashboardHtml = `
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Tendril</title>
	<style>
		body {
			font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif;
			line-height: 1.6;
			color: #333;
			max-width: 800px;
			margin: 0 auto;
			padding: 20px;
			background-color: #f6faf6;
		}
		.container {
			background-color: #fff;
			padding: 40px;
			border-radius: 8px;
			box-shadow: 0 2px 4px rgba(0,0,0,0.1);
		}
		h1 { color: #2e5e3e; border-bottom: 2px solid #eee; padding-bottom: 10px; }
		.stats { display: flex; gap: 24px; flex-wrap: wrap; }
		.stat { background-color: #eef6ef; padding: 12px 18px; border-radius: 5px; }
		.stat b { display: block; font-size: 1.6em; }
		.paused { color: #b9770e; }
		.done { text-decoration: line-through; color: #7f8c8d; }
	</style>
</head>
<body>
	<div class="container">
		<h1>Hello, {{.UserID}}</h1>
		<div class="stats">
			<div class="stat"><b>{{.Streak.CurrentStreak}}</b>current streak</div>
			<div class="stat"><b>{{.Streak.LongestStreak}}</b>longest streak</div>
			<div class="stat"><b>{{.Streak.TotalCompletionDays}}</b>days completed</div>
		</div>
		{{if .Streak.IsPaused}}
		<p class="paused">Streak paused{{with .Streak.DaysSinceLastCompletion}}, last completion {{.}} day(s) ago{{end}}. Complete a task today to pick it back up.</p>
		{{end}}

		<h2>Today, {{.Today.Date}}</h2>
		{{if .Today.Tasks}}
		<p>{{.Today.CompletedCount}} of {{.Today.TotalCount}} done</p>
		<ul>
			{{range .Today.Tasks}}
			<li{{if .Completed}} class="done"{{end}}>{{.Title}}</li>
			{{end}}
		</ul>
		{{else}}
		<p>Nothing scheduled for today.</p>
		{{end}}
	</div>
</body>
</html>
`

var dashboardTemplate = template.Must(template.New("dashboard").Parse(dashboardHtml))

type dashboardData struct {
	UserID string
	Streak streak.Summary
	Today  *calendar.DayTasks
}

type DashboardHandler struct {
	taskService   *services.TaskService
	streakService *services.StreakService
	logger        *zap.Logger
}

func NewDashboardHandler(taskService *services.TaskService, streakService *services.StreakService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		taskService:   taskService,
		streakService: streakService,
		logger:        logger,
	}
}

func (h *DashboardHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := middleware.GetUserID(ctx)

	summary, err := h.streakService.GetSummary(ctx, userID)
	if err != nil {
		h.logger.Error("dashboard: failed to load streak", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Could not load dashboard", http.StatusInternalServerError)
		return
	}
	today, err := h.taskService.TasksForDate(ctx, userID, h.streakService.Today())
	if err != nil {
		h.logger.Error("dashboard: failed to load tasks", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Could not load dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, dashboardData{UserID: userID, Streak: summary, Today: today}); err != nil {
		h.logger.Warn("dashboard: template execution failed", zap.Error(err))
	}
}
