// Package streak computes consecutive-day completion streaks.
//
// The engine holds no state and performs no I/O. Callers load a Record,
// pass it through RecordCompletion or Summarize together with the current
// date, and persist whatever comes back.
package streak

import (
	"slices"
	"time"

	"cloud.google.com/go/civil"
)

// Engine binds the pure streak functions to a clock and a time zone so that
// "today" is decided in one place.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Engine)

// WithClock replaces time.Now as the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the zone in which calendar days are counted.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now: time.Now,
		loc: time.UTC,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today is the current calendar date in the engine's zone.
func (e *Engine) Today() civil.Date {
	return civil.DateOf(e.now().In(e.loc))
}

func (e *Engine) RecordCompletion(rec Record, d civil.Date) (Record, bool) {
	return RecordCompletion(rec, d, e.Today())
}

func (e *Engine) Summarize(rec Record) Summary {
	return Summarize(rec, e.Today())
}

// RecordCompletion adds d to the record's completion dates and recomputes the
// derived fields against today. The second return value is false when d was
// already recorded, in which case rec is returned untouched and nothing needs
// to be saved.
//
// d is not checked against today: a future date becomes the last completion
// and leaves the record paused.
func RecordCompletion(rec Record, d civil.Date, today civil.Date) (Record, bool) {
	i, found := search(rec.CompletionDates, d)
	if found {
		return rec, false
	}

	out := rec.clone()
	out.CompletionDates = slices.Insert(out.CompletionDates, i, d)

	last := out.CompletionDates[len(out.CompletionDates)-1]
	out.LastCompletionDate = &last
	// Anchored at the overall latest date, not at d, so a backfill that
	// bridges a gap extends the current run.
	out.CurrentStreak = consecutiveRun(out.CompletionDates, last)
	out.IsPaused = last != today
	if out.CurrentStreak > out.LongestStreak {
		out.LongestStreak = out.CurrentStreak
	}
	return out, true
}

// Summarize builds the read view of rec. The pause flag and state are
// evaluated against today every time, so a record saved yesterday reads as
// paused without any write.
func Summarize(rec Record, today civil.Date) Summary {
	s := Summary{
		CurrentStreak:       rec.CurrentStreak,
		LongestStreak:       rec.LongestStreak,
		State:               StateNoHistory,
		TotalCompletionDays: len(rec.CompletionDates),
	}
	if len(rec.CompletionDates) == 0 {
		return s
	}

	last := rec.CompletionDates[len(rec.CompletionDates)-1]
	days := today.DaysSince(last)
	s.LastCompletionDate = &last
	s.DaysSinceLastCompletion = &days
	s.IsPaused = last != today
	if s.IsPaused {
		s.State = StatePaused
	} else {
		s.State = StateActive
	}
	return s
}

// Normalize coerces a record read from storage into a valid one: dates are
// sorted and deduplicated, the last completion and current run are rebuilt
// from them and the longest streak is raised to cover the current run.
func Normalize(rec Record, today civil.Date) Record {
	out := rec.clone()
	slices.SortFunc(out.CompletionDates, compareDates)
	out.CompletionDates = slices.Compact(out.CompletionDates)

	if len(out.CompletionDates) == 0 {
		out.LastCompletionDate = nil
		out.CurrentStreak = 0
		out.IsPaused = false
		return out
	}

	last := out.CompletionDates[len(out.CompletionDates)-1]
	out.LastCompletionDate = &last
	out.CurrentStreak = consecutiveRun(out.CompletionDates, last)
	out.IsPaused = last != today
	out.LongestStreak = max(out.LongestStreak, out.CurrentStreak)
	return out
}

// consecutiveRun walks backwards one day at a time from anchor and counts
// how many days in a row are present in dates.
func consecutiveRun(dates []civil.Date, anchor civil.Date) int {
	count := 0
	for cursor := anchor; ; cursor = cursor.AddDays(-1) {
		if _, ok := search(dates, cursor); !ok {
			return count
		}
		count++
	}
}

func search(dates []civil.Date, d civil.Date) (int, bool) {
	return slices.BinarySearchFunc(dates, d, compareDates)
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}
