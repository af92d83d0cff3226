package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Storage backends
const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// Config holds application configuration
type Config struct {
	Port     string
	LogLevel string

	StorageBackend string
	StreakBackend  string
	DataDir        string
	DatabaseURL    string
	SQLitePath     string
	RedisURL       string
	SeedData       bool

	FrontendURL string
	VercelURL   string

	Location               *time.Location
	AllowFutureCompletions bool

	RewriteProvider string
	RewriteModel    string
	GroqAPIKey      string
	GeminiAPIKey    string

	AnalyzeMaxRequests int
	AnalyzeWindow      time.Duration

	MetricsUser string
	MetricsPass string
	PprofSecret string
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", BackendJSON)),
		StreakBackend:   strings.ToLower(os.Getenv("STREAK_BACKEND")),
		DataDir:         getEnv("DATA_DIR", "./database"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getEnv("SQLITE_PATH", "./tendril.db"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		VercelURL:       os.Getenv("VERCEL_URL"),
		RewriteProvider: strings.ToLower(os.Getenv("REWRITE_PROVIDER")),
		RewriteModel:    os.Getenv("REWRITE_MODEL"),
		GroqAPIKey:      os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		MetricsUser:     os.Getenv("METRICS_USER"),
		MetricsPass:     os.Getenv("METRICS_PASS"),
		PprofSecret:     os.Getenv("PPROF_SECRET"),
	}

	switch cfg.StorageBackend {
	case BackendJSON, BackendPostgres, BackendSQLite:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND: %q", cfg.StorageBackend)
	}

	switch cfg.StreakBackend {
	case "":
		cfg.StreakBackend = cfg.StorageBackend
	case BackendJSON, BackendPostgres, BackendSQLite, BackendRedis:
	default:
		return nil, fmt.Errorf("unsupported STREAK_BACKEND: %q", cfg.StreakBackend)
	}

	if (cfg.StorageBackend == BackendPostgres || cfg.StreakBackend == BackendPostgres) && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.AllowFutureCompletions, err = getBool("ALLOW_FUTURE_COMPLETIONS", false); err != nil {
		return nil, err
	}
	if cfg.SeedData, err = getBool("SEED_DATA", cfg.StorageBackend == BackendJSON); err != nil {
		return nil, err
	}
	if cfg.AnalyzeMaxRequests, err = getInt("ANALYZE_MAX_REQUESTS", 10); err != nil {
		return nil, err
	}
	if cfg.AnalyzeMaxRequests <= 0 {
		return nil, fmt.Errorf("ANALYZE_MAX_REQUESTS must be positive, got %d", cfg.AnalyzeMaxRequests)
	}
	if cfg.AnalyzeWindow, err = getDuration("ANALYZE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.AnalyzeWindow <= 0 {
		return nil, fmt.Errorf("ANALYZE_WINDOW must be positive, got %s", cfg.AnalyzeWindow)
	}

	return cfg, nil
}

// AllowedOrigins lists the CORS origins: local development hosts plus the
// configured frontend and preview deployments.
func (c *Config) AllowedOrigins() []string {
	origins := []string{
		"http://localhost:3000",
		"https://localhost:3000",
		"http://localhost:" + c.Port,
		"https://localhost:" + c.Port,
	}

	if frontend := strings.TrimRight(c.FrontendURL, "/"); frontend != "" && frontend != "http://localhost:3000" {
		origins = append(origins, frontend)
	}
	if c.VercelURL != "" {
		origins = append(origins, "https://"+strings.TrimRight(c.VercelURL, "/"))
	}
	return origins
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
