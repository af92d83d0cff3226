package tip

import "time"

type Tip struct {
	ID         string    `json:"id" db:"id"`
	Content    string    `json:"content" db:"content"`
	Author     string    `json:"author" db:"author"`
	Category   string    `json:"category" db:"category"`
	Likes      int       `json:"likes" db:"likes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	IsFeatured bool      `json:"is_featured" db:"is_featured"`
}

type CreateTipRequest struct {
	Content    string `json:"content"`
	Author     string `json:"author"`
	Category   string `json:"category"`
	IsFeatured bool   `json:"is_featured"`
}

type Affirmation struct {
	Text      string `json:"text"`
	Generated bool   `json:"generated"`
}
