package forum

import "time"

type Post struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	UserID         *string   `json:"user_id" db:"user_id"`
	Author         *string   `json:"author" db:"author"`
	Category       *string   `json:"category" db:"category"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	CommentsCount  int       `json:"comments_count" db:"comments_count"`
	ReactionsCount int       `json:"reactions_count" db:"reactions_count"`
	UserReacted    bool      `json:"user_reacted"`
}

type Comment struct {
	ID             string    `json:"id" db:"id"`
	PostID         string    `json:"post_id" db:"post_id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Content        string    `json:"content" db:"content"`
	ParentID       *string   `json:"parent_id" db:"parent_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	RepliesCount   int       `json:"replies_count" db:"replies_count"`
	ReactionsCount int       `json:"reactions_count" db:"reactions_count"`
	UserReacted    bool      `json:"user_reacted"`
}

// Reaction is the outcome of toggling a reaction for one identity.
type Reaction struct {
	Message        string `json:"message"`
	TargetID       string `json:"target_id"`
	ReactionsCount int    `json:"reactions_count"`
	UserReacted    bool   `json:"user_reacted"`
}
