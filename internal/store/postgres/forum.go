package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/types/forum"
)

const postColumns = `
	p.id, p.title, p.content, p.user_id, p.author, p.category, p.created_at,
	p.comments_count, p.reactions_count,
	EXISTS (SELECT 1 FROM post_reactions r WHERE r.post_id = p.id AND r.user_id = $1)
`

const commentColumns = `
	c.id, c.post_id, c.user_id, c.content, c.parent_id, c.created_at,
	c.replies_count, c.reactions_count,
	EXISTS (SELECT 1 FROM comment_reactions r WHERE r.comment_id = c.id AND r.user_id = $1)
`

func (s *Store) ListPosts(ctx context.Context, viewerID string) ([]*forum.Post, error) {
	rows, err := s.db.Query(ctx, `SELECT `+postColumns+` FROM posts p ORDER BY p.created_at DESC`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*forum.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Store) GetPost(ctx context.Context, postID, viewerID string) (*forum.Post, error) {
	row := s.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $2`, viewerID, postID)
	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", postID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

func (s *Store) CreatePost(ctx context.Context, p *forum.Post) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO posts (id, title, content, user_id, author, category, created_at, comments_count, reactions_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Title, p.Content, p.UserID, p.Author, p.Category, p.CreatedAt, p.CommentsCount, p.ReactionsCount)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (s *Store) TogglePostReaction(ctx context.Context, postID, userID string) (int, bool, error) {
	return s.toggleReaction(ctx, "posts", "post_reactions", "post_id", postID, userID)
}

func (s *Store) ListComments(ctx context.Context, postID, viewerID string) ([]*forum.Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+commentColumns+` FROM comments c WHERE c.post_id = $2 ORDER BY c.created_at
	`, viewerID, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*forum.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) GetComment(ctx context.Context, commentID, viewerID string) (*forum.Comment, error) {
	row := s.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.id = $2`, viewerID, commentID)
	c, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("comment %s: %w", commentID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

func (s *Store) CreateComment(ctx context.Context, c *forum.Comment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE posts SET comments_count = comments_count + 1 WHERE id = $1`, c.PostID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", c.PostID, store.ErrNotFound)
	}

	if c.ParentID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE comments SET replies_count = replies_count + 1 WHERE id = $1 AND post_id = $2
		`, *c.ParentID, c.PostID)
		if err != nil {
			return fmt.Errorf("failed to update parent comment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("parent comment %s: %w", *c.ParentID, store.ErrNotFound)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO comments (id, post_id, user_id, content, parent_id, created_at, replies_count, reactions_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.PostID, c.UserID, c.Content, c.ParentID, c.CreatedAt, c.RepliesCount, c.ReactionsCount)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) ToggleCommentReaction(ctx context.Context, commentID, userID string) (int, bool, error) {
	return s.toggleReaction(ctx, "comments", "comment_reactions", "comment_id", commentID, userID)
}

// toggleReaction flips userID's row in the reactions table and keeps the
// target's counter in step. Table and column names are package constants.
func (s *Store) toggleReaction(ctx context.Context, table, reactions, fk, targetID, userID string) (int, bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int
	err = tx.QueryRow(ctx, `SELECT reactions_count FROM `+table+` WHERE id = $1 FOR UPDATE`, targetID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("%s %s: %w", table, targetID, store.ErrNotFound)
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to lock %s: %w", table, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM `+reactions+` WHERE `+fk+` = $1 AND user_id = $2`, targetID, userID)
	if err != nil {
		return 0, false, fmt.Errorf("failed to remove reaction: %w", err)
	}

	reacted := tag.RowsAffected() == 0
	if reacted {
		if _, err := tx.Exec(ctx, `INSERT INTO `+reactions+` (`+fk+`, user_id) VALUES ($1, $2)`, targetID, userID); err != nil {
			return 0, false, fmt.Errorf("failed to add reaction: %w", err)
		}
		count++
	} else {
		count = max(0, count-1)
	}

	if _, err := tx.Exec(ctx, `UPDATE `+table+` SET reactions_count = $2 WHERE id = $1`, targetID, count); err != nil {
		return 0, false, fmt.Errorf("failed to update reaction count: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, false, err
	}
	return count, reacted, nil
}

func scanPost(row pgx.Row) (*forum.Post, error) {
	var p forum.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.UserID, &p.Author, &p.Category, &p.CreatedAt,
		&p.CommentsCount, &p.ReactionsCount, &p.UserReacted)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanComment(row pgx.Row) (*forum.Comment, error) {
	var c forum.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.ParentID, &c.CreatedAt,
		&c.RepliesCount, &c.ReactionsCount, &c.UserReacted)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
