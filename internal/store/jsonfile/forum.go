package jsonfile

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/types/forum"
)

type postRecord struct {
	forum.Post
	ReactedBy []string `json:"reacted_by,omitempty"`
}

type commentRecord struct {
	forum.Comment
	ReactedBy []string `json:"reacted_by,omitempty"`
}

func (r *postRecord) view(viewerID string) *forum.Post {
	p := r.Post
	p.UserReacted = slices.Contains(r.ReactedBy, viewerID)
	return &p
}

func (r *commentRecord) view(viewerID string) *forum.Comment {
	c := r.Comment
	c.UserReacted = slices.Contains(r.ReactedBy, viewerID)
	return &c
}

func (s *Store) ListPosts(ctx context.Context, viewerID string) ([]*forum.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[[]*postRecord](ctx, s, PostsFile)
	if err != nil {
		return nil, err
	}

	posts := make([]*forum.Post, 0, len(records))
	for _, r := range records {
		posts = append(posts, r.view(viewerID))
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, postID, viewerID string) (*forum.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[[]*postRecord](ctx, s, PostsFile)
	if err != nil {
		return nil, err
	}
	r := findPost(records, postID)
	if r == nil {
		return nil, fmt.Errorf("post %s: %w", postID, store.ErrNotFound)
	}
	return r.view(viewerID), nil
}

func (s *Store) CreatePost(ctx context.Context, p *forum.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[[]*postRecord](ctx, s, PostsFile)
	if err != nil {
		return err
	}
	records = append(records, &postRecord{Post: *p})
	return s.save(PostsFile, records)
}

func (s *Store) TogglePostReaction(ctx context.Context, postID, userID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[[]*postRecord](ctx, s, PostsFile)
	if err != nil {
		return 0, false, err
	}
	r := findPost(records, postID)
	if r == nil {
		return 0, false, fmt.Errorf("post %s: %w", postID, store.ErrNotFound)
	}

	var reacted bool
	r.ReactedBy, r.ReactionsCount, reacted = toggle(r.ReactedBy, r.ReactionsCount, userID)
	if err := s.save(PostsFile, records); err != nil {
		return 0, false, err
	}
	return r.ReactionsCount, reacted, nil
}

func (s *Store) ListComments(ctx context.Context, postID, viewerID string) ([]*forum.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[[]*commentRecord](ctx, s, CommentsFile)
	if err != nil {
		return nil, err
	}

	comments := []*forum.Comment{}
	for _, r := range records {
		if r.PostID == postID {
			comments = append(comments, r.view(viewerID))
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *Store) GetComment(ctx context.Context, commentID, viewerID string) (*forum.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[[]*commentRecord](ctx, s, CommentsFile)
	if err != nil {
		return nil, err
	}
	r := findComment(records, commentID)
	if r == nil {
		return nil, fmt.Errorf("comment %s: %w", commentID, store.ErrNotFound)
	}
	return r.view(viewerID), nil
}

func (s *Store) CreateComment(ctx context.Context, c *forum.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := load[[]*postRecord](ctx, s, PostsFile)
	if err != nil {
		return err
	}
	post := findPost(posts, c.PostID)
	if post == nil {
		return fmt.Errorf("post %s: %w", c.PostID, store.ErrNotFound)
	}

	comments, err := load[[]*commentRecord](ctx, s, CommentsFile)
	if err != nil {
		return err
	}
	if c.ParentID != nil {
		parent := findComment(comments, *c.ParentID)
		if parent == nil {
			return fmt.Errorf("parent comment %s: %w", *c.ParentID, store.ErrNotFound)
		}
		parent.RepliesCount++
	}

	comments = append(comments, &commentRecord{Comment: *c})
	if err := s.save(CommentsFile, comments); err != nil {
		return err
	}

	post.CommentsCount++
	return s.save(PostsFile, posts)
}

func (s *Store) ToggleCommentReaction(ctx context.Context, commentID, userID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := load[[]*commentRecord](ctx, s, CommentsFile)
	if err != nil {
		return 0, false, err
	}
	r := findComment(records, commentID)
	if r == nil {
		return 0, false, fmt.Errorf("comment %s: %w", commentID, store.ErrNotFound)
	}

	var reacted bool
	r.ReactedBy, r.ReactionsCount, reacted = toggle(r.ReactedBy, r.ReactionsCount, userID)
	if err := s.save(CommentsFile, records); err != nil {
		return 0, false, err
	}
	return r.ReactionsCount, reacted, nil
}

// toggle flips userID's membership in reactedBy and adjusts count, never
// letting it go below zero.
func toggle(reactedBy []string, count int, userID string) ([]string, int, bool) {
	if i := slices.Index(reactedBy, userID); i >= 0 {
		return slices.Delete(reactedBy, i, i+1), max(0, count-1), false
	}
	return append(reactedBy, userID), count + 1, true
}

func findPost(records []*postRecord, id string) *postRecord {
	for _, r := range records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func findComment(records []*commentRecord, id string) *commentRecord {
	for _, r := range records {
		if r.ID == id {
			return r
		}
	}
	return nil
}
