package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/types/forum"
)

type ForumService struct {
	store  store.ForumStore
	logger *zap.Logger
	now    func() time.Time
}

func NewForumService(s store.ForumStore, logger *zap.Logger) *ForumService {
	return &ForumService{store: s, logger: logger, now: time.Now}
}

func (s *ForumService) ListPosts(ctx context.Context, viewerID string) ([]*forum.Post, error) {
	return s.store.ListPosts(ctx, viewerID)
}

func (s *ForumService) GetPost(ctx context.Context, postID, viewerID string) (*forum.Post, error) {
	return s.store.GetPost(ctx, postID, viewerID)
}

func (s *ForumService) CreatePost(ctx context.Context, userID string, req *forum.CreatePostRequest) (*forum.Post, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, validationf("title and content are required")
	}

	p := &forum.Post{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		UserID:    &userID,
		Author:    req.Author,
		Category:  req.Category,
		CreatedAt: s.now(),
	}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return p, nil
}

func (s *ForumService) TogglePostReaction(ctx context.Context, postID, userID string) (*forum.Reaction, error) {
	count, reacted, err := s.store.TogglePostReaction(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return &forum.Reaction{
		Message:        reactionMessage(reacted),
		TargetID:       postID,
		ReactionsCount: count,
		UserReacted:    reacted,
	}, nil
}

func (s *ForumService) ListComments(ctx context.Context, postID, viewerID string) ([]*forum.Comment, error) {
	if _, err := s.store.GetPost(ctx, postID, viewerID); err != nil {
		return nil, err
	}
	return s.store.ListComments(ctx, postID, viewerID)
}

func (s *ForumService) CreateComment(ctx context.Context, postID, userID string, req *forum.CreateCommentRequest) (*forum.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, validationf("content is required")
	}

	parentID := req.ParentID
	if parentID != nil && strings.TrimSpace(*parentID) == "" {
		parentID = nil
	}

	c := &forum.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		ParentID:  parentID,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ForumService) ToggleCommentReaction(ctx context.Context, commentID, userID string) (*forum.Reaction, error) {
	count, reacted, err := s.store.ToggleCommentReaction(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}
	return &forum.Reaction{
		Message:        reactionMessage(reacted),
		TargetID:       commentID,
		ReactionsCount: count,
		UserReacted:    reacted,
	}, nil
}

func reactionMessage(reacted bool) string {
	if reacted {
		return "Reaction added"
	}
	return "Reaction removed"
}
