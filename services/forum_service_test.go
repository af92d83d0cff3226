package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/store/jsonfile"
	"tendrilAPI/internal/types/forum"
)

func newForumService(t *testing.T) *ForumService {
	t.Helper()
	s, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	return NewForumService(s, zap.NewNop())
}

func TestForumPostsAndReactions(t *testing.T) {
	ctx := context.Background()
	svc := newForumService(t)

	_, err := svc.CreatePost(ctx, "alice", &forum.CreatePostRequest{Title: "Hi", Content: " "})
	assert.ErrorIs(t, err, ErrValidation)

	post, err := svc.CreatePost(ctx, "alice", &forum.CreatePostRequest{Title: "Day one", Content: "Starting today"})
	require.NoError(t, err)
	require.NotNil(t, post.UserID)
	assert.Equal(t, "alice", *post.UserID)

	r, err := svc.TogglePostReaction(ctx, post.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Reaction added", r.Message)
	assert.Equal(t, 1, r.ReactionsCount)
	assert.True(t, r.UserReacted)

	seen, err := svc.GetPost(ctx, post.ID, "bob")
	require.NoError(t, err)
	assert.True(t, seen.UserReacted)
	seen, err = svc.GetPost(ctx, post.ID, "alice")
	require.NoError(t, err)
	assert.False(t, seen.UserReacted)

	r, err = svc.TogglePostReaction(ctx, post.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Reaction removed", r.Message)
	assert.Zero(t, r.ReactionsCount)

	_, err = svc.TogglePostReaction(ctx, "missing", "bob")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestForumComments(t *testing.T) {
	ctx := context.Background()
	svc := newForumService(t)

	_, err := svc.ListComments(ctx, "missing", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.CreateComment(ctx, "missing", "alice", &forum.CreateCommentRequest{Content: "hello"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	post, err := svc.CreatePost(ctx, "alice", &forum.CreatePostRequest{Title: "Day one", Content: "Starting today"})
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, post.ID, "bob", &forum.CreateCommentRequest{Content: ""})
	assert.ErrorIs(t, err, ErrValidation)

	blank := " "
	top, err := svc.CreateComment(ctx, post.ID, "bob", &forum.CreateCommentRequest{Content: "Good luck", ParentID: &blank})
	require.NoError(t, err)
	assert.Nil(t, top.ParentID)

	_, err = svc.CreateComment(ctx, post.ID, "alice", &forum.CreateCommentRequest{Content: "Thanks", ParentID: &top.ID})
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, post.ID, "alice")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, top.ID, comments[0].ID)
	assert.Equal(t, 1, comments[0].RepliesCount)

	got, err := svc.GetPost(ctx, post.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CommentsCount)

	r, err := svc.ToggleCommentReaction(ctx, top.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, r.ReactionsCount)
	assert.Equal(t, top.ID, r.TargetID)

	_, err = svc.ToggleCommentReaction(ctx, "missing", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
