package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tendrilAPI/internal/streak"
)

func TestRecordCompletionPersists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	summary, changed, err := f.streaks.RecordCompletion(ctx, "alice", day("2024-01-09"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, summary.CurrentStreak)
	assert.True(t, summary.IsPaused)
	assert.Equal(t, streak.StatePaused, summary.State)

	summary, changed, err = f.streaks.RecordCompletion(ctx, "alice", day("2024-01-10"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, summary.CurrentStreak)
	assert.False(t, summary.IsPaused)
	assert.Equal(t, streak.StateActive, summary.State)

	rec, err := f.store.LoadStreak(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, rec.CompletionDates, 2)
	assert.Equal(t, 2, rec.LongestStreak)
}

func TestRecordCompletionDuplicateIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, _, err := f.streaks.RecordCompletion(ctx, "alice", day("2024-01-10"))
	require.NoError(t, err)

	summary, changed, err := f.streaks.RecordCompletion(ctx, "alice", day("2024-01-10"))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, summary.CurrentStreak)
	assert.Equal(t, 1, summary.TotalCompletionDays)
}

func TestRecordCompletionRejectsFuture(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, false)
	_, _, err := f.streaks.RecordCompletion(ctx, "alice", day("2024-01-11"))
	assert.ErrorIs(t, err, ErrValidation)

	f = newFixture(t, true)
	summary, changed, err := f.streaks.RecordCompletion(ctx, "alice", day("2024-01-11"))
	require.NoError(t, err)
	assert.True(t, changed)
	// a future completion leaves the streak paused until that day arrives
	assert.True(t, summary.IsPaused)
}

func TestGetSummaryEmpty(t *testing.T) {
	f := newFixture(t, false)

	summary, err := f.streaks.GetSummary(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, streak.StateNoHistory, summary.State)
	assert.Zero(t, summary.CurrentStreak)
	assert.False(t, summary.IsPaused)
	assert.Nil(t, summary.LastCompletionDate)
	assert.Nil(t, summary.DaysSinceLastCompletion)
}

func TestConcurrentCompletionsForOneIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	const n = 20
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.streaks.RecordCompletion(ctx, "alice", day("2024-01-10").AddDays(-i))
			assert.NoError(t, err)
		}()
	}
	// a second identity shares nothing with the first
	for i := range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.streaks.RecordCompletion(ctx, fmt.Sprintf("user-%d", i), day("2024-01-10"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	summary, err := f.streaks.GetSummary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, n, summary.TotalCompletionDays)
	assert.Equal(t, n, summary.CurrentStreak)
	assert.Equal(t, n, summary.LongestStreak)
	assert.Empty(t, f.streaks.locks.m)
}

func TestGetCalendar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, _, err := f.streaks.RecordCompletion(ctx, "alice", day("2024-01-03"))
	require.NoError(t, err)
	_, _, err = f.streaks.RecordCompletion(ctx, "alice", day("2023-12-31"))
	require.NoError(t, err)

	cal, err := f.streaks.GetCalendar(ctx, "alice", 2024, 1)
	require.NoError(t, err)
	require.Len(t, cal.Days, 31)
	assert.True(t, cal.Days[2].Completed)
	assert.False(t, cal.Days[0].Completed)
	assert.True(t, cal.Days[9].IsToday)

	dec, err := f.streaks.GetCalendar(ctx, "alice", 2023, 12)
	require.NoError(t, err)
	require.Len(t, dec.Days, 31)
	assert.True(t, dec.Days[30].Completed)

	feb, err := f.streaks.GetCalendar(ctx, "alice", 2024, 2)
	require.NoError(t, err)
	assert.Len(t, feb.Days, 29)

	_, err = f.streaks.GetCalendar(ctx, "alice", 2024, 13)
	assert.ErrorIs(t, err, ErrValidation)
}
