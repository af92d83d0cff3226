package task

import (
	"time"

	"cloud.google.com/go/civil"
)

type Task struct {
	ID                string              `json:"id" db:"id"`
	UserID            string              `json:"user_id" db:"user_id"`
	Title             string              `json:"title" db:"title"`
	Description       *string             `json:"description" db:"description"`
	Completed         bool                `json:"completed" db:"completed"`
	DueDate           *civil.Date         `json:"due_date" db:"due_date"`
	CompletionHistory map[civil.Date]bool `json:"completion_history"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
}

// CompletedOn reports the completion status for d: the history entry when one
// exists, otherwise the general flag.
func (t *Task) CompletedOn(d civil.Date) bool {
	if done, ok := t.CompletionHistory[d]; ok {
		return done
	}
	return t.Completed
}

// DueOn reports whether the task is scheduled for d.
func (t *Task) DueOn(d civil.Date) bool {
	return t.DueDate != nil && *t.DueDate == d
}
