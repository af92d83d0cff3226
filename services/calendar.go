package services

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"tendrilAPI/internal/types/calendar"
)

// GetCalendar marks every day of the month on which the identity has a
// recorded completion.
func (s *StreakService) GetCalendar(ctx context.Context, userID string, year, month int) (*calendar.CalendarResponse, error) {
	if month < 1 || month > 12 {
		return nil, validationf("month must be between 1 and 12, got %d", month)
	}
	if year < 1 || year > 9999 {
		return nil, validationf("invalid year %d", year)
	}

	rec, err := s.GetRecord(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	first := civil.Date{Year: year, Month: time.Month(month), Day: 1}
	next := civil.Date{Year: year, Month: time.Month(month) + 1, Day: 1}
	if month == 12 {
		next = civil.Date{Year: year + 1, Month: time.January, Day: 1}
	}

	resp := &calendar.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  make([]*calendar.CalendarDay, 0, 31),
	}
	for d := first; d.Before(next); d = d.AddDays(1) {
		resp.Days = append(resp.Days, &calendar.CalendarDay{
			Date:      d,
			Completed: rec.Has(d),
			IsToday:   d == today,
		})
	}
	return resp, nil
}
