package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/types/task"
)

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) ListTasks(ctx context.Context, userID string) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, completed, due_date, created_at
		FROM tasks WHERE user_id = ? ORDER BY created_at, id
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
	rows.Close()

	history, err := s.db.QueryContext(ctx, `
		SELECT c.task_id, c.day, c.completed
		FROM task_completions c JOIN tasks t ON t.id = c.task_id
		WHERE t.user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion history: %w", err)
	}
	defer history.Close()

	for history.Next() {
		var (
			taskID, day string
			completed   bool
		)
		if err := history.Scan(&taskID, &day, &completed); err != nil {
			return nil, err
		}
		d, err := civil.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", day, err)
		}
		if t, ok := byID[taskID]; ok {
			t.CompletionHistory[d] = completed
		}
	}
	return tasks, history.Err()
}

func (s *Store) GetTask(ctx context.Context, userID, taskID string) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, completed, due_date, created_at
		FROM tasks WHERE id = ? AND user_id = ?
	`, taskID, userID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT day, completed FROM task_completions WHERE task_id = ?`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completion history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day       string
			completed bool
		)
		if err := rows.Scan(&day, &completed); err != nil {
			return nil, err
		}
		d, err := civil.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("invalid stored date %q: %w", day, err)
		}
		t.CompletionHistory[d] = completed
	}
	return t, rows.Err()
}

func (s *Store) SaveTask(ctx context.Context, t *task.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, completed, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			completed = excluded.completed,
			due_date = excluded.due_date
	`, t.ID, t.UserID, t.Title, t.Description, t.Completed, dateText(t.DueDate), t.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM task_completions WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("failed to clear completion history: %w", err)
	}
	for d, done := range t.CompletionHistory {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO task_completions (task_id, day, completed) VALUES (?, ?, ?)
		`, t.ID, d.String(), done); err != nil {
			return fmt.Errorf("failed to save completion history: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) DeleteTask(ctx context.Context, userID, taskID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
	}
	return nil
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t   task.Task
		due sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &due, &t.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if t.DueDate, err = parseDate(due); err != nil {
		return nil, err
	}
	t.CompletionHistory = make(map[civil.Date]bool)
	return &t, nil
}
