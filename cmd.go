package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tendrilAPI/internal/config"
	"tendrilAPI/internal/logging"
	"tendrilAPI/internal/ratelimit"
	"tendrilAPI/internal/store"
	"tendrilAPI/internal/workers"
	"tendrilAPI/middleware"
	"tendrilAPI/services"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	streakUser string
	streakDate string
)

var rootCmd = &cobra.Command{
	Use:           "tendril",
	Short:         "Tendril wellness API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := godotenv.Load()

		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if logger, err = logging.New(cfg.LogLevel); err != nil {
			return err
		}
		if envErr != nil {
			logger.Debug("no .env file loaded", zap.Error(envErr))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Inspect or update an identity's streak",
}

var streakShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the streak summary of an identity",
	RunE:  runStreakShow,
}

var streakCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Record a completion day for an identity",
	Long: `Record a completion day for an identity.

Without --date the current day in TIMEZONE is recorded. Recording a day
that is already present changes nothing.`,
	RunE: runStreakComplete,
}

// seedCmd fills empty collections with starter data
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed tips, forum posts and starter tasks into the configured store",
	RunE:  runSeed,
}

func init() {
	streakCmd.PersistentFlags().StringVarP(&streakUser, "user", "u", middleware.AnonymousUserID, "identity to act on")
	streakCompleteCmd.Flags().StringVarP(&streakDate, "date", "d", "", "completion date (YYYY-MM-DD), defaults to today")

	streakCmd.AddCommand(streakShowCmd, streakCompleteCmd)
	rootCmd.AddCommand(serveCmd, streakCmd, seedCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.SeedData {
		if err := store.Seed(ctx, a.store, time.Now(), a.engine.Today()); err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
	}

	middleware.InitPrometheus()
	services.InitPrometheus()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	cleanup := &workers.LimiterCleanup{
		Interval: time.Minute,
		Idle:     3 * time.Minute,
		Limiters: map[string]*ratelimit.Limiter{
			"client":  a.clientLimiter,
			"analyze": a.analyzeLimiter,
		},
		Logger: logger.Named("workers"),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			zap.String("port", cfg.Port),
			zap.String("storage", cfg.StorageBackend),
			zap.String("streaks", cfg.StreakBackend),
			zap.String("timezone", cfg.Location.String()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return cleanup.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server shutdown complete")
	return nil
}

func runStreakShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.streakService.GetSummary(cmd.Context(), streakUser)
	if err != nil {
		return err
	}
	return printJSON(cmd, summary)
}

func runStreakComplete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	date := a.streakService.Today()
	if streakDate != "" {
		if date, err = parseCLIDate(streakDate); err != nil {
			return err
		}
	}

	summary, recorded, err := a.streakService.RecordCompletion(cmd.Context(), streakUser, date)
	if err != nil {
		return err
	}
	if !recorded {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s already recorded for %s\n", date, streakUser)
	}
	return printJSON(cmd, summary)
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := store.Seed(cmd.Context(), a.store, time.Now(), a.engine.Today()); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}
	logger.Info("seed complete", zap.String("storage", cfg.StorageBackend))
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
