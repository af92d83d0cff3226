package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"

	"tendrilAPI/internal/streak"
)

func (s *Store) LoadStreak(ctx context.Context, userID string) (streak.Record, error) {
	rec := streak.NewRecord(userID)

	var last *time.Time
	err := s.db.QueryRow(ctx, `
		SELECT current_streak, longest_streak, is_paused, last_completion_date
		FROM streaks
		WHERE user_id = $1
	`, userID).Scan(&rec.CurrentStreak, &rec.LongestStreak, &rec.IsPaused, &last)
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, nil
	}
	if err != nil {
		return streak.Record{}, fmt.Errorf("failed to load streak: %w", err)
	}
	rec.LastCompletionDate = fromTimePtr(last)

	rows, err := s.db.Query(ctx, `
		SELECT day FROM streak_completions WHERE user_id = $1 ORDER BY day
	`, userID)
	if err != nil {
		return streak.Record{}, fmt.Errorf("failed to load completion dates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return streak.Record{}, err
		}
		rec.CompletionDates = append(rec.CompletionDates, civil.DateOf(day))
	}
	if err := rows.Err(); err != nil {
		return streak.Record{}, err
	}
	return rec, nil
}

// SaveStreak replaces the stored record and its date set in one transaction.
func (s *Store) SaveStreak(ctx context.Context, rec streak.Record) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO streaks (user_id, current_streak, longest_streak, is_paused, last_completion_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			is_paused = EXCLUDED.is_paused,
			last_completion_date = EXCLUDED.last_completion_date
	`, rec.UserID, rec.CurrentStreak, rec.LongestStreak, rec.IsPaused, toTimePtr(rec.LastCompletionDate))
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}

	days := make([]time.Time, len(rec.CompletionDates))
	for i, d := range rec.CompletionDates {
		days[i] = toTime(d)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM streak_completions
		WHERE user_id = $1 AND NOT (day = ANY($2::date[]))
	`, rec.UserID, days); err != nil {
		return fmt.Errorf("failed to prune completion dates: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO streak_completions (user_id, day)
		SELECT $1, unnest($2::date[])
		ON CONFLICT DO NOTHING
	`, rec.UserID, days); err != nil {
		return fmt.Errorf("failed to save completion dates: %w", err)
	}

	return tx.Commit(ctx)
}
