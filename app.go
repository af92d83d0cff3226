package main

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"tendrilAPI/internal/config"
	"tendrilAPI/internal/ratelimit"
	"tendrilAPI/internal/rewrite"
	"tendrilAPI/internal/store"
	"tendrilAPI/internal/store/jsonfile"
	"tendrilAPI/internal/store/postgres"
	"tendrilAPI/internal/store/redisstreak"
	"tendrilAPI/internal/store/sqlite"
	"tendrilAPI/internal/streak"
	"tendrilAPI/middleware"
	"tendrilAPI/services"
)

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  store.Store
	engine *streak.Engine

	streakService   *services.StreakService
	taskService     *services.TaskService
	forumService    *services.ForumService
	tipService      *services.TipService
	analysisService *services.AnalysisService

	clientLimiter  *ratelimit.Limiter
	analyzeLimiter *ratelimit.Limiter
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	provider, err := rewrite.New(ctx, rewrite.Config{
		Provider:     cfg.RewriteProvider,
		Model:        cfg.RewriteModel,
		GroqAPIKey:   cfg.GroqAPIKey,
		GeminiAPIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to configure rewrite provider: %w", err)
	}
	logger.Info("rewrite provider configured", zap.String("provider", provider.ID()))

	a := &app{
		cfg:            cfg,
		logger:         logger,
		store:          st,
		engine:         streak.NewEngine(streak.WithLocation(cfg.Location)),
		clientLimiter:  middleware.NewClientLimiter(),
		analyzeLimiter: ratelimit.PerWindow(cfg.AnalyzeMaxRequests, cfg.AnalyzeWindow),
	}
	a.streakService = services.NewStreakService(st, a.engine, cfg.AllowFutureCompletions, logger.Named("streak"))
	a.taskService = services.NewTaskService(st, a.streakService, logger.Named("tasks"))
	a.forumService = services.NewForumService(st, logger.Named("forum"))
	a.tipService = services.NewTipService(st, provider, logger.Named("tips"))
	a.analysisService = services.NewAnalysisService(provider, a.analyzeLimiter, cfg.AnalyzeWindow, logger.Named("analysis"))
	return a, nil
}

func (a *app) Close() {
	a.logger.Info("closing store")
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
}

// openStore opens the configured backend and, when streaks live elsewhere,
// the separate streak backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	base, err := openBackend(ctx, cfg, cfg.StorageBackend)
	if err != nil {
		return nil, err
	}
	if cfg.StreakBackend == cfg.StorageBackend {
		return base, nil
	}

	var streaks store.StreakBackend
	if cfg.StreakBackend == config.BackendRedis {
		streaks, err = redisstreak.Open(ctx, cfg.RedisURL)
	} else {
		streaks, err = openBackend(ctx, cfg, cfg.StreakBackend)
	}
	if err != nil {
		base.Close()
		return nil, fmt.Errorf("failed to open streak backend %q: %w", cfg.StreakBackend, err)
	}
	return store.WithStreakBackend(base, streaks), nil
}

func openBackend(ctx context.Context, cfg *config.Config, backend string) (store.Store, error) {
	switch backend {
	case config.BackendJSON:
		return jsonfile.New(cfg.DataDir)
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	case config.BackendSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", backend)
	}
}

func parseCLIDate(raw string) (civil.Date, error) {
	d, err := civil.ParseDate(raw)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return d, nil
}
