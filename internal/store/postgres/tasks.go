package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/types/task"
)

func (s *Store) ListTasks(ctx context.Context, userID string) ([]*task.Task, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, title, description, completed, due_date, created_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	byID := make(map[string]*task.Task)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	history, err := s.db.Query(ctx, `
		SELECT c.task_id, c.day, c.completed
		FROM task_completions c
		JOIN tasks t ON t.id = c.task_id
		WHERE t.user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion history: %w", err)
	}
	defer history.Close()

	for history.Next() {
		var (
			taskID    string
			day       time.Time
			completed bool
		)
		if err := history.Scan(&taskID, &day, &completed); err != nil {
			return nil, err
		}
		if t, ok := byID[taskID]; ok {
			t.CompletionHistory[civil.DateOf(day)] = completed
		}
	}
	return tasks, history.Err()
}

func (s *Store) GetTask(ctx context.Context, userID, taskID string) (*task.Task, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, title, description, completed, due_date, created_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`, taskID, userID)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT day, completed FROM task_completions WHERE task_id = $1
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day       time.Time
			completed bool
		)
		if err := rows.Scan(&day, &completed); err != nil {
			return nil, err
		}
		t.CompletionHistory[civil.DateOf(day)] = completed
	}
	return t, rows.Err()
}

func (s *Store) SaveTask(ctx context.Context, t *task.Task) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO tasks (id, user_id, title, description, completed, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			completed = EXCLUDED.completed,
			due_date = EXCLUDED.due_date
	`, t.ID, t.UserID, t.Title, t.Description, t.Completed, toTimePtr(t.DueDate), t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM task_completions WHERE task_id = $1`, t.ID); err != nil {
		return fmt.Errorf("failed to clear completion history: %w", err)
	}

	days := make([]time.Time, 0, len(t.CompletionHistory))
	states := make([]bool, 0, len(t.CompletionHistory))
	for d, done := range t.CompletionHistory {
		days = append(days, toTime(d))
		states = append(states, done)
	}
	if len(days) > 0 {
		if _, err := tx.Exec(ctx, `
			INSERT INTO task_completions (task_id, day, completed)
			SELECT $1, d, c FROM unnest($2::date[], $3::boolean[]) AS h(d, c)
		`, t.ID, days, states); err != nil {
			return fmt.Errorf("failed to save completion history: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) DeleteTask(ctx context.Context, userID, taskID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
	}
	return nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		t   task.Task
		due *time.Time
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &due, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.DueDate = fromTimePtr(due)
	t.CompletionHistory = make(map[civil.Date]bool)
	return &t, nil
}
