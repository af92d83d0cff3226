package forum

type CreatePostRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Author   *string `json:"author,omitempty"`
	Category *string `json:"category,omitempty"`
}

type CreateCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
}
