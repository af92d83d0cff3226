package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"

	"tendrilAPI/internal/streak"
)

func (s *Store) LoadStreak(ctx context.Context, userID string) (streak.Record, error) {
	rec := streak.NewRecord(userID)

	var last sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT current_streak, longest_streak, is_paused, last_completion_date
		FROM streaks WHERE user_id = ?
	`, userID).Scan(&rec.CurrentStreak, &rec.LongestStreak, &rec.IsPaused, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, nil
	}
	if err != nil {
		return streak.Record{}, fmt.Errorf("failed to load streak: %w", err)
	}
	if rec.LastCompletionDate, err = parseDate(last); err != nil {
		return streak.Record{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT day FROM streak_completions WHERE user_id = ? ORDER BY day
	`, userID)
	if err != nil {
		return streak.Record{}, fmt.Errorf("failed to load completion dates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return streak.Record{}, err
		}
		d, err := civil.ParseDate(day)
		if err != nil {
			return streak.Record{}, fmt.Errorf("invalid stored date %q: %w", day, err)
		}
		rec.CompletionDates = append(rec.CompletionDates, d)
	}
	return rec, rows.Err()
}

func (s *Store) SaveStreak(ctx context.Context, rec streak.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current_streak, longest_streak, is_paused, last_completion_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			is_paused = excluded.is_paused,
			last_completion_date = excluded.last_completion_date
	`, rec.UserID, rec.CurrentStreak, rec.LongestStreak, rec.IsPaused, dateText(rec.LastCompletionDate))
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM streak_completions WHERE user_id = ?`, rec.UserID); err != nil {
		return fmt.Errorf("failed to clear completion dates: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO streak_completions (user_id, day) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range rec.CompletionDates {
		if _, err := stmt.ExecContext(ctx, rec.UserID, d.String()); err != nil {
			return fmt.Errorf("failed to save completion date: %w", err)
		}
	}
	return tx.Commit()
}
