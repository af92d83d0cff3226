package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/store/storetest"
	"tendrilAPI/internal/streak"
	"tendrilAPI/internal/types/forum"
	"tendrilAPI/internal/types/task"
	"tendrilAPI/internal/types/tip"
)

var _ store.Store = (*Store)(nil)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSharedBehaviour(t *testing.T) {
	storetest.Run(t, newStore(t))
}

func date(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestStreakRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	rec, err := s.LoadStreak(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.UserID)
	assert.Empty(t, rec.CompletionDates)

	last := date("2024-01-10")
	rec.CompletionDates = []civil.Date{date("2024-01-09"), last}
	rec.CurrentStreak = 2
	rec.LongestStreak = 2
	rec.LastCompletionDate = &last
	require.NoError(t, s.SaveStreak(ctx, rec))

	// a fresh handle on the same directory sees the saved record
	reopened, err := New(s.root)
	require.NoError(t, err)
	got, err := reopened.LoadStreak(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, rec.CompletionDates, got.CompletionDates)
	assert.Equal(t, 2, got.CurrentStreak)
	require.NotNil(t, got.LastCompletionDate)
	assert.Equal(t, last, *got.LastCompletionDate)

	other, err := reopened.LoadStreak(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, streak.NewRecord("bob"), other)
}

func TestTasksScopedToUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	due := date("2024-03-01")
	mine := &task.Task{ID: "t1", UserID: "alice", Title: "Walk", DueDate: &due,
		CompletionHistory: map[civil.Date]bool{due: true}}
	theirs := &task.Task{ID: "t2", UserID: "bob", Title: "Read"}
	require.NoError(t, s.SaveTask(ctx, mine))
	require.NoError(t, s.SaveTask(ctx, theirs))

	tasks, err := s.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Walk", tasks[0].Title)
	assert.True(t, tasks[0].CompletionHistory[due])

	_, err = s.GetTask(ctx, "alice", "t2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	mine.Title = "Long walk"
	require.NoError(t, s.SaveTask(ctx, mine))
	got, err := s.GetTask(ctx, "alice", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Long walk", got.Title)

	assert.ErrorIs(t, s.DeleteTask(ctx, "alice", "t2"), store.ErrNotFound)
	require.NoError(t, s.DeleteTask(ctx, "alice", "t1"))
	_, err = s.GetTask(ctx, "alice", "t1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	tasks, err = s.ListTasks(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestPostReactionsArePerUser(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.CreatePost(ctx, &forum.Post{ID: "p1", Title: "Hi", Content: "there", CreatedAt: time.Now()}))

	count, reacted, err := s.TogglePostReaction(ctx, "p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, reacted)

	count, reacted, err = s.TogglePostReaction(ctx, "p1", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, reacted)

	post, err := s.GetPost(ctx, "p1", "alice")
	require.NoError(t, err)
	assert.True(t, post.UserReacted)
	post, err = s.GetPost(ctx, "p1", "carol")
	require.NoError(t, err)
	assert.False(t, post.UserReacted)

	count, reacted, err = s.TogglePostReaction(ctx, "p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.False(t, reacted)

	_, _, err = s.TogglePostReaction(ctx, "missing", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now()

	require.NoError(t, s.CreatePost(ctx, &forum.Post{ID: "old", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, s.CreatePost(ctx, &forum.Post{ID: "new", CreatedAt: now}))

	posts, err := s.ListPosts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].ID)
	assert.Equal(t, "old", posts[1].ID)
}

func TestCommentsBumpCounters(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Now()

	require.NoError(t, s.CreatePost(ctx, &forum.Post{ID: "p1", CreatedAt: now}))
	require.NoError(t, s.CreateComment(ctx, &forum.Comment{ID: "c1", PostID: "p1", UserID: "alice", Content: "first", CreatedAt: now}))
	parent := "c1"
	require.NoError(t, s.CreateComment(ctx, &forum.Comment{ID: "c2", PostID: "p1", UserID: "bob", Content: "reply", ParentID: &parent, CreatedAt: now.Add(time.Minute)}))

	post, err := s.GetPost(ctx, "p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, post.CommentsCount)

	comments, err := s.ListComments(ctx, "p1", "alice")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, 1, comments[0].RepliesCount)

	err = s.CreateComment(ctx, &forum.Comment{ID: "c3", PostID: "nope", Content: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	missing := "ghost"
	err = s.CreateComment(ctx, &forum.Comment{ID: "c4", PostID: "p1", Content: "x", ParentID: &missing})
	assert.ErrorIs(t, err, store.ErrNotFound)

	count, reacted, err := s.ToggleCommentReaction(ctx, "c2", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, reacted)
}

func TestTips(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	tips, err := s.ListTips(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tips)
	assert.Empty(t, tips)

	require.NoError(t, s.CreateTip(ctx, &tip.Tip{ID: "1", Content: "Drink water"}))
	tips, err = s.ListTips(ctx)
	require.NoError(t, err)
	assert.Len(t, tips, 1)
}

func TestCorruptFileIsAnError(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.root, TipsFile), []byte("{nope"), 0600))

	// a decode failure is not retried, so a long backoff never comes into play
	s.retryConfig.InitialDelay = time.Second

	start := time.Now()
	_, err := s.ListTips(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode "+TipsFile)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	today := civil.DateOf(now)

	require.NoError(t, store.Seed(ctx, s, now, today))
	require.NoError(t, store.Seed(ctx, s, now, today))

	tips, err := s.ListTips(ctx)
	require.NoError(t, err)
	assert.Len(t, tips, 6)

	posts, err := s.ListPosts(ctx, store.SeedUserID)
	require.NoError(t, err)
	assert.Len(t, posts, 5)

	tasks, err := s.ListTasks(ctx, store.SeedUserID)
	require.NoError(t, err)
	require.Len(t, tasks, 6)
	for _, tk := range tasks {
		require.NotNil(t, tk.DueDate)
		done, ok := tk.CompletionHistory[*tk.DueDate]
		assert.True(t, ok)
		assert.False(t, done)
	}
}
