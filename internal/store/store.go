// Package store defines the persistence boundary of the service. Backends
// live in the sub-packages: jsonfile, postgres, sqlite and redisstreak.
package store

import (
	"context"
	"errors"

	"tendrilAPI/internal/streak"
	"tendrilAPI/internal/types/forum"
	"tendrilAPI/internal/types/task"
	"tendrilAPI/internal/types/tip"
)

// ErrNotFound is returned (possibly wrapped) when a requested entity does not
// exist or is not visible to the requesting identity.
var ErrNotFound = errors.New("not found")

// StreakStore is keyed by identity. LoadStreak returns an empty record for an
// identity it has never seen.
type StreakStore interface {
	LoadStreak(ctx context.Context, userID string) (streak.Record, error)
	SaveStreak(ctx context.Context, rec streak.Record) error
}

type TaskStore interface {
	ListTasks(ctx context.Context, userID string) ([]*task.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*task.Task, error)
	// SaveTask inserts or replaces the task, history included.
	SaveTask(ctx context.Context, t *task.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// ForumStore reads posts and comments from the point of view of viewerID,
// which decides UserReacted.
type ForumStore interface {
	ListPosts(ctx context.Context, viewerID string) ([]*forum.Post, error)
	GetPost(ctx context.Context, postID, viewerID string) (*forum.Post, error)
	CreatePost(ctx context.Context, p *forum.Post) error
	TogglePostReaction(ctx context.Context, postID, userID string) (count int, reacted bool, err error)

	ListComments(ctx context.Context, postID, viewerID string) ([]*forum.Comment, error)
	GetComment(ctx context.Context, commentID, viewerID string) (*forum.Comment, error)
	// CreateComment stores c and bumps the post's comment count and, for a
	// reply, the parent's reply count.
	CreateComment(ctx context.Context, c *forum.Comment) error
	ToggleCommentReaction(ctx context.Context, commentID, userID string) (count int, reacted bool, err error)
}

type TipStore interface {
	ListTips(ctx context.Context) ([]*tip.Tip, error)
	CreateTip(ctx context.Context, t *tip.Tip) error
}

// Store is a complete backend.
type Store interface {
	StreakStore
	TaskStore
	ForumStore
	TipStore

	Ping(ctx context.Context) error
	Close() error
}

// StreakBackend is a standalone streak store such as redisstreak.
type StreakBackend interface {
	StreakStore
	Ping(ctx context.Context) error
	Close() error
}

type splitStore struct {
	Store
	streaks StreakBackend
}

// WithStreakBackend serves streaks from streaks and everything else from
// base. Ping and Close reach both.
func WithStreakBackend(base Store, streaks StreakBackend) Store {
	return &splitStore{Store: base, streaks: streaks}
}

func (s *splitStore) LoadStreak(ctx context.Context, userID string) (streak.Record, error) {
	return s.streaks.LoadStreak(ctx, userID)
}

func (s *splitStore) SaveStreak(ctx context.Context, rec streak.Record) error {
	return s.streaks.SaveStreak(ctx, rec)
}

func (s *splitStore) Ping(ctx context.Context) error {
	if err := s.Store.Ping(ctx); err != nil {
		return err
	}
	return s.streaks.Ping(ctx)
}

func (s *splitStore) Close() error {
	return errors.Join(s.streaks.Close(), s.Store.Close())
}
