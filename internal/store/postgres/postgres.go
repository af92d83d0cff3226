// Package postgres is the pgx-backed store. Dates are stored as DATE columns
// and completion histories live in their own tables.
package postgres

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

// Open connects to databaseURL, pings it and applies the schema.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool. The caller is responsible for Migrate.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() error {
	s.db.Close()
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT,
		completed   BOOLEAN NOT NULL DEFAULT FALSE,
		due_date    DATE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id)`,
	`CREATE TABLE IF NOT EXISTS task_completions (
		task_id   TEXT NOT NULL REFERENCES tasks (id) ON DELETE CASCADE,
		day       DATE NOT NULL,
		completed BOOLEAN NOT NULL,
		PRIMARY KEY (task_id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		content         TEXT NOT NULL,
		user_id         TEXT,
		author          TEXT,
		category        TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		comments_count  INTEGER NOT NULL DEFAULT 0,
		reactions_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS post_reactions (
		post_id TEXT NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		PRIMARY KEY (post_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id              TEXT PRIMARY KEY,
		post_id         TEXT NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
		user_id         TEXT NOT NULL,
		content         TEXT NOT NULL,
		parent_id       TEXT REFERENCES comments (id) ON DELETE CASCADE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		replies_count   INTEGER NOT NULL DEFAULT 0,
		reactions_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS comments_post_id_idx ON comments (post_id)`,
	`CREATE TABLE IF NOT EXISTS comment_reactions (
		comment_id TEXT NOT NULL REFERENCES comments (id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		PRIMARY KEY (comment_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tips (
		id          TEXT PRIMARY KEY,
		content     TEXT NOT NULL,
		author      TEXT NOT NULL,
		category    TEXT NOT NULL,
		likes       INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_featured BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS streaks (
		user_id              TEXT PRIMARY KEY,
		current_streak       INTEGER NOT NULL DEFAULT 0,
		longest_streak       INTEGER NOT NULL DEFAULT 0,
		is_paused            BOOLEAN NOT NULL DEFAULT FALSE,
		last_completion_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS streak_completions (
		user_id TEXT NOT NULL REFERENCES streaks (user_id) ON DELETE CASCADE,
		day     DATE NOT NULL,
		PRIMARY KEY (user_id, day)
	)`,
}

func toTime(d civil.Date) time.Time {
	return d.In(time.UTC)
}

func toTimePtr(d *civil.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := toTime(*d)
	return &t
}

func fromTimePtr(t *time.Time) *civil.Date {
	if t == nil {
		return nil
	}
	d := civil.DateOf(*t)
	return &d
}
