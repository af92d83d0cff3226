package calendar

import (
	"cloud.google.com/go/civil"

	"tendrilAPI/internal/types/task"
)

type CalendarDay struct {
	Date      civil.Date `json:"date"`
	Completed bool       `json:"completed"`
	IsToday   bool       `json:"is_today"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}

// DayTasks is the per-date task view: every task due on Date with its
// completion status for that date.
type DayTasks struct {
	Date           civil.Date   `json:"date"`
	Tasks          []*task.Task `json:"tasks"`
	CompletedCount int          `json:"completed_count"`
	TotalCount     int          `json:"total_count"`
	CompletionRate float64      `json:"completion_rate"`
}
