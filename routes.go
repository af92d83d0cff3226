package main

import (
	"context"
	"net/http"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tendrilAPI/handlers"
	"tendrilAPI/middleware"

	_ "net/http/pprof"
)

func (a *app) routes() http.Handler {
	taskHandler := handlers.NewTaskHandler(a.taskService, a.logger)
	calendarHandler := handlers.NewCalendarHandler(a.taskService, a.streakService, a.logger)
	streakHandler := handlers.NewStreakHandler(a.streakService, a.logger)
	forumHandler := handlers.NewForumHandler(a.forumService, a.logger)
	tipHandler := handlers.NewTipHandler(a.tipService, a.logger)
	analysisHandler := handlers.NewAnalysisHandler(a.analysisService, a.logger)
	dashboardHandler := handlers.NewDashboardHandler(a.taskService, a.streakService, a.logger)

	r := mux.NewRouter()
	r.Use(middleware.RateLimitMiddleware(a.clientLimiter))
	r.Use(middleware.IdentityMiddleware)
	r.Use(middleware.MonitorMiddleware)
	r.Use(middleware.RequestLogger(a.logger.Named("http")))

	r.Handle("/metrics", middleware.BasicAuthMiddleware(a.cfg.MetricsUser, a.cfg.MetricsPass)(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(a.cfg.PprofSecret)(http.DefaultServeMux))

	r.HandleFunc("/health", a.health).Methods("GET")
	r.HandleFunc("/", dashboardHandler.ServeDashboard).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/tasks", taskHandler.ListTasks).Methods("GET")
	api.HandleFunc("/tasks", taskHandler.CreateTask).Methods("POST")
	api.HandleFunc("/tasks/{taskID}", taskHandler.UpdateTask).Methods("PUT")
	api.HandleFunc("/tasks/{taskID}", taskHandler.DeleteTask).Methods("DELETE")
	api.HandleFunc("/tasks/{taskID}/complete/{date}", taskHandler.SetCompletion).Methods("PUT")

	api.HandleFunc("/calendar", calendarHandler.GetMonth).Methods("GET")
	api.HandleFunc("/calendar/{date}", calendarHandler.GetDay).Methods("GET")

	api.HandleFunc("/streak", streakHandler.GetStreak).Methods("GET")
	api.HandleFunc("/streak/complete", streakHandler.CompleteStreak).Methods("POST")

	api.HandleFunc("/tips", tipHandler.ListTips).Methods("GET")
	api.HandleFunc("/tips", tipHandler.CreateTip).Methods("POST")
	api.HandleFunc("/tips/featured", tipHandler.FeaturedTips).Methods("GET")
	api.HandleFunc("/tips/random", tipHandler.RandomTip).Methods("GET")
	api.HandleFunc("/affirmation", tipHandler.GetAffirmation).Methods("GET")

	api.HandleFunc("/posts/analyze", analysisHandler.Analyze).Methods("POST")
	api.HandleFunc("/comments/analyze", analysisHandler.Analyze).Methods("POST")

	api.HandleFunc("/posts", forumHandler.ListPosts).Methods("GET")
	api.HandleFunc("/posts", forumHandler.CreatePost).Methods("POST")
	api.HandleFunc("/posts/{postID}", forumHandler.GetPost).Methods("GET")
	api.HandleFunc("/posts/{postID}/react", forumHandler.ReactToPost).Methods("POST")
	api.HandleFunc("/posts/{postID}/comments", forumHandler.ListComments).Methods("GET")
	api.HandleFunc("/posts/{postID}/comments", forumHandler.CreateComment).Methods("POST")
	api.HandleFunc("/comments/{commentID}/react", forumHandler.ReactToComment).Methods("POST")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(a.cfg.AllowedOrigins()),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-User-ID", "X-Pprof-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)
	return corsHandler(r)
}

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := a.store.Ping(ctx); err != nil {
		a.logger.Warn("health check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status": "unhealthy", "error": "storage unavailable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "tendril-api"}`))
}
