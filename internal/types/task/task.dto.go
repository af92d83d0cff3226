package task

import "cloud.google.com/go/civil"

type CreateTaskRequest struct {
	Title             string              `json:"title"`
	Description       *string             `json:"description,omitempty"`
	Completed         bool                `json:"completed"`
	DueDate           *civil.Date         `json:"due_date,omitempty"`
	CompletionHistory map[civil.Date]bool `json:"completion_history,omitempty"`
}

// UpdateTaskRequest replaces the task's fields. A nil CompletionHistory keeps
// the stored history.
type UpdateTaskRequest struct {
	Title             string              `json:"title"`
	Description       *string             `json:"description,omitempty"`
	Completed         bool                `json:"completed"`
	DueDate           *civil.Date         `json:"due_date,omitempty"`
	CompletionHistory map[civil.Date]bool `json:"completion_history,omitempty"`
}

type CompletionUpdate struct {
	Message   string     `json:"message"`
	TaskID    string     `json:"task_id"`
	Date      civil.Date `json:"date"`
	Completed bool       `json:"completed"`
	Task      *Task      `json:"task"`
}
