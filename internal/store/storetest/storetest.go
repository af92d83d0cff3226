// Package storetest holds behaviour every store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/types/forum"
	"tendrilAPI/internal/types/task"
	"tendrilAPI/internal/types/tip"
)

// Run exercises s, which must start empty.
func Run(t *testing.T, s store.Store) {
	t.Run("Streaks", func(t *testing.T) { streaks(t, s) })
	t.Run("Tasks", func(t *testing.T) { tasks(t, s) })
	t.Run("Forum", func(t *testing.T) { forumFlow(t, s) })
	t.Run("Tips", func(t *testing.T) { tips(t, s) })
}

func mustDate(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func streaks(t *testing.T, s store.Store) {
	ctx := context.Background()

	rec, err := s.LoadStreak(ctx, "streak-user")
	require.NoError(t, err)
	assert.Equal(t, "streak-user", rec.UserID)
	assert.Empty(t, rec.CompletionDates)
	assert.Nil(t, rec.LastCompletionDate)

	last := mustDate("2024-01-10")
	rec.CompletionDates = []civil.Date{mustDate("2024-01-08"), mustDate("2024-01-09"), last}
	rec.CurrentStreak = 3
	rec.LongestStreak = 3
	rec.LastCompletionDate = &last
	require.NoError(t, s.SaveStreak(ctx, rec))

	got, err := s.LoadStreak(ctx, "streak-user")
	require.NoError(t, err)
	assert.Equal(t, rec.CompletionDates, got.CompletionDates)
	assert.Equal(t, 3, got.CurrentStreak)
	assert.Equal(t, 3, got.LongestStreak)
	require.NotNil(t, got.LastCompletionDate)
	assert.Equal(t, last, *got.LastCompletionDate)

	// saving a smaller set replaces rather than merges
	rec.CompletionDates = []civil.Date{last}
	rec.CurrentStreak = 1
	require.NoError(t, s.SaveStreak(ctx, rec))
	got, err = s.LoadStreak(ctx, "streak-user")
	require.NoError(t, err)
	assert.Equal(t, []civil.Date{last}, got.CompletionDates)
}

func tasks(t *testing.T, s store.Store) {
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	due := mustDate("2024-03-01")
	desc := "around the block"
	walk := &task.Task{
		ID: "task-walk", UserID: "task-user", Title: "Walk", Description: &desc,
		DueDate: &due, CreatedAt: created,
		CompletionHistory: map[civil.Date]bool{due: true, due.AddDays(1): false},
	}
	require.NoError(t, s.SaveTask(ctx, walk))
	require.NoError(t, s.SaveTask(ctx, &task.Task{
		ID: "task-other", UserID: "someone-else", Title: "Read", CreatedAt: created,
		CompletionHistory: map[civil.Date]bool{},
	}))

	list, err := s.ListTasks(ctx, "task-user")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, walk.CompletionHistory, list[0].CompletionHistory)
	require.NotNil(t, list[0].DueDate)
	assert.Equal(t, due, *list[0].DueDate)

	_, err = s.GetTask(ctx, "task-user", "task-other")
	assert.ErrorIs(t, err, store.ErrNotFound)

	walk.Title = "Long walk"
	walk.CompletionHistory = map[civil.Date]bool{due: false}
	require.NoError(t, s.SaveTask(ctx, walk))

	got, err := s.GetTask(ctx, "task-user", "task-walk")
	require.NoError(t, err)
	assert.Equal(t, "Long walk", got.Title)
	assert.Equal(t, map[civil.Date]bool{due: false}, got.CompletionHistory)

	require.NoError(t, s.DeleteTask(ctx, "task-user", "task-walk"))
	assert.ErrorIs(t, s.DeleteTask(ctx, "task-user", "task-walk"), store.ErrNotFound)
}

func forumFlow(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	author := "poster"
	require.NoError(t, s.CreatePost(ctx, &forum.Post{ID: "post-old", Title: "Old", Content: "a", UserID: &author, CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, s.CreatePost(ctx, &forum.Post{ID: "post-new", Title: "New", Content: "b", CreatedAt: now}))

	posts, err := s.ListPosts(ctx, "viewer")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "post-new", posts[0].ID)

	count, reacted, err := s.TogglePostReaction(ctx, "post-old", "viewer")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, reacted)

	p, err := s.GetPost(ctx, "post-old", "viewer")
	require.NoError(t, err)
	assert.True(t, p.UserReacted)
	p, err = s.GetPost(ctx, "post-old", "stranger")
	require.NoError(t, err)
	assert.False(t, p.UserReacted)
	assert.Equal(t, 1, p.ReactionsCount)

	count, reacted, err = s.TogglePostReaction(ctx, "post-old", "viewer")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.False(t, reacted)

	_, err = s.GetPost(ctx, "post-missing", "viewer")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.CreateComment(ctx, &forum.Comment{ID: "comment-1", PostID: "post-old", UserID: "viewer", Content: "hi", CreatedAt: now}))
	parent := "comment-1"
	require.NoError(t, s.CreateComment(ctx, &forum.Comment{ID: "comment-2", PostID: "post-old", UserID: "poster", Content: "hello", ParentID: &parent, CreatedAt: now.Add(time.Second)}))
	assert.ErrorIs(t, s.CreateComment(ctx, &forum.Comment{ID: "comment-3", PostID: "post-missing", UserID: "x", Content: "x", CreatedAt: now}), store.ErrNotFound)

	comments, err := s.ListComments(ctx, "post-old", "viewer")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "comment-1", comments[0].ID)
	assert.Equal(t, 1, comments[0].RepliesCount)

	p, err = s.GetPost(ctx, "post-old", "viewer")
	require.NoError(t, err)
	assert.Equal(t, 2, p.CommentsCount)

	count, reacted, err = s.ToggleCommentReaction(ctx, "comment-2", "viewer")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, reacted)

	c, err := s.GetComment(ctx, "comment-2", "viewer")
	require.NoError(t, err)
	assert.True(t, c.UserReacted)

	_, _, err = s.ToggleCommentReaction(ctx, "comment-missing", "viewer")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func tips(t *testing.T, s store.Store) {
	ctx := context.Background()

	list, err := s.ListTips(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.CreateTip(ctx, &tip.Tip{ID: "tip-1", Content: "Drink water", Author: "A", Category: "Hydration", CreatedAt: time.Now().UTC()}))
	list, err = s.ListTips(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Drink water", list[0].Content)
}
