package streak

import (
	"cloud.google.com/go/civil"
)

// State is the streak status of an identity, derived from its last completion.
type State string

const (
	StateNoHistory State = "no_history"
	StateActive    State = "active"
	StatePaused    State = "paused"
)

// Record is the persisted streak history of one identity.
// CompletionDates is kept sorted and free of duplicates.
type Record struct {
	UserID             string       `json:"user_id" db:"user_id"`
	CompletionDates    []civil.Date `json:"completion_dates" db:"completion_dates"`
	CurrentStreak      int          `json:"current_streak" db:"current_streak"`
	LongestStreak      int          `json:"longest_streak" db:"longest_streak"`
	IsPaused           bool         `json:"is_paused" db:"is_paused"`
	LastCompletionDate *civil.Date  `json:"last_completion_date" db:"last_completion_date"`
}

// Summary is the read view handed to the dashboard.
type Summary struct {
	CurrentStreak           int         `json:"current_streak"`
	LongestStreak           int         `json:"longest_streak"`
	IsPaused                bool        `json:"is_paused"`
	State                   State       `json:"state"`
	LastCompletionDate      *civil.Date `json:"last_completion_date"`
	DaysSinceLastCompletion *int        `json:"days_since_last_completion"`
	TotalCompletionDays     int         `json:"total_completion_days"`
}

// NewRecord returns the empty record an identity starts with.
func NewRecord(userID string) Record {
	return Record{
		UserID:          userID,
		CompletionDates: []civil.Date{},
	}
}

// Has reports whether d is one of the recorded completion dates.
func (r Record) Has(d civil.Date) bool {
	_, found := search(r.CompletionDates, d)
	return found
}

func (r Record) clone() Record {
	out := r
	out.CompletionDates = append(make([]civil.Date, 0, len(r.CompletionDates)+1), r.CompletionDates...)
	if r.LastCompletionDate != nil {
		last := *r.LastCompletionDate
		out.LastCompletionDate = &last
	}
	return out
}
