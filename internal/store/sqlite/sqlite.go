// Package sqlite is a single-file store for local installs. Calendar dates
// are kept as ISO TEXT so the driver never turns them into timestamps.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"cloud.google.com/go/civil"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; readers share the same connection
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		completed INTEGER NOT NULL DEFAULT 0,
		due_date TEXT,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id);

	CREATE TABLE IF NOT EXISTS task_completions (
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		day TEXT NOT NULL,
		completed INTEGER NOT NULL,
		PRIMARY KEY (task_id, day)
	);

	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		user_id TEXT,
		author TEXT,
		category TEXT,
		created_at DATETIME NOT NULL,
		comments_count INTEGER NOT NULL DEFAULT 0,
		reactions_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS post_reactions (
		post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		PRIMARY KEY (post_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		parent_id TEXT REFERENCES comments(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL,
		replies_count INTEGER NOT NULL DEFAULT 0,
		reactions_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);

	CREATE TABLE IF NOT EXISTS comment_reactions (
		comment_id TEXT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		PRIMARY KEY (comment_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS tips (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		author TEXT NOT NULL,
		category TEXT NOT NULL,
		likes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		is_featured INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS streaks (
		user_id TEXT PRIMARY KEY,
		current_streak INTEGER NOT NULL DEFAULT 0,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		is_paused INTEGER NOT NULL DEFAULT 0,
		last_completion_date TEXT
	);

	CREATE TABLE IF NOT EXISTS streak_completions (
		user_id TEXT NOT NULL REFERENCES streaks(user_id) ON DELETE CASCADE,
		day TEXT NOT NULL,
		PRIMARY KEY (user_id, day)
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func dateText(d *civil.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseDate(ns sql.NullString) (*civil.Date, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := civil.ParseDate(ns.String)
	if err != nil {
		return nil, fmt.Errorf("invalid stored date %q: %w", ns.String, err)
	}
	return &d, nil
}
