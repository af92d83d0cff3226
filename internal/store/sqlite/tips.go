package sqlite

import (
	"context"
	"fmt"

	"tendrilAPI/internal/types/tip"
)

func (s *Store) ListTips(ctx context.Context) ([]*tip.Tip, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, author, category, likes, created_at, is_featured
		FROM tips ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tips: %w", err)
	}
	defer rows.Close()

	tips := []*tip.Tip{}
	for rows.Next() {
		var t tip.Tip
		if err := rows.Scan(&t.ID, &t.Content, &t.Author, &t.Category, &t.Likes, &t.CreatedAt, &t.IsFeatured); err != nil {
			return nil, err
		}
		tips = append(tips, &t)
	}
	return tips, rows.Err()
}

func (s *Store) CreateTip(ctx context.Context, t *tip.Tip) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tips (id, content, author, category, likes, created_at, is_featured)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Content, t.Author, t.Category, t.Likes, t.CreatedAt.UTC(), t.IsFeatured)
	if err != nil {
		return fmt.Errorf("failed to create tip: %w", err)
	}
	return nil
}
