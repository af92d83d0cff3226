package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/streak"
	"tendrilAPI/internal/types/task"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: "Walk", DueDate: ptr(day("2024-01-09"))})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: " Walk ", DueDate: ptr(day("2024-01-10"))})
	require.NoError(t, err)
	assert.Equal(t, "Walk", created.Title)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.CompletionHistory)
	assert.Equal(t, fixedNow, created.CreatedAt)

	list, err := f.tasks.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	others, err := f.tasks.ListTasks(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestUpdateTaskKeepsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	created, err := f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{
		Title:             "Read",
		CompletionHistory: map[civil.Date]bool{day("2024-01-08"): true},
	})
	require.NoError(t, err)

	updated, err := f.tasks.UpdateTask(ctx, "alice", created.ID, &task.UpdateTaskRequest{Title: "Read more"})
	require.NoError(t, err)
	assert.Equal(t, "Read more", updated.Title)
	assert.True(t, updated.CompletionHistory[day("2024-01-08")])

	_, err = f.tasks.UpdateTask(ctx, "bob", created.ID, &task.UpdateTaskRequest{Title: "Mine now"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.tasks.UpdateTask(ctx, "alice", created.ID, &task.UpdateTaskRequest{Title: "Read", DueDate: ptr(day("2023-12-01"))})
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, f.tasks.DeleteTask(ctx, "alice", "missing"), store.ErrNotFound)
	require.NoError(t, f.tasks.DeleteTask(ctx, "alice", created.ID))
}

func TestSetCompletionFeedsStreak(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	created, err := f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: "Stretch", DueDate: ptr(day("2024-01-10"))})
	require.NoError(t, err)

	update, err := f.tasks.SetCompletion(ctx, "alice", created.ID, day("2024-01-10"), true)
	require.NoError(t, err)
	assert.True(t, update.Completed)
	assert.True(t, update.Task.Completed, "today's entry drives the general flag")
	assert.Equal(t, "Task completion updated for 2024-01-10", update.Message)

	_, err = f.tasks.SetCompletion(ctx, "alice", created.ID, day("2024-01-09"), true)
	require.NoError(t, err)

	summary, err := f.streaks.GetSummary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CurrentStreak)

	// unchecking does not rewrite streak history
	update, err = f.tasks.SetCompletion(ctx, "alice", created.ID, day("2024-01-10"), false)
	require.NoError(t, err)
	assert.False(t, update.Task.Completed)
	summary, err = f.streaks.GetSummary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.CurrentStreak)

	// a past date leaves the general flag alone
	update, err = f.tasks.SetCompletion(ctx, "alice", created.ID, day("2024-01-05"), true)
	require.NoError(t, err)
	assert.False(t, update.Task.Completed)
}

func TestSetCompletionErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.tasks.SetCompletion(ctx, "alice", "missing", day("2024-01-10"), true)
	assert.ErrorIs(t, err, store.ErrNotFound)

	created, err := f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: "Walk"})
	require.NoError(t, err)
	_, err = f.tasks.SetCompletion(ctx, "alice", created.ID, day("2024-01-11"), true)
	assert.ErrorIs(t, err, ErrValidation)

	summary, err := f.streaks.GetSummary(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalCompletionDays)
}

func TestTasksForDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	today := day("2024-01-10")

	a, err := f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: "A", DueDate: &today})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: "B", DueDate: &today, Completed: true})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: "C", DueDate: &today})
	require.NoError(t, err)
	_, err = f.tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: "Tomorrow", DueDate: ptr(today.AddDays(1))})
	require.NoError(t, err)

	_, err = f.tasks.SetCompletion(ctx, "alice", a.ID, today, true)
	require.NoError(t, err)

	dayTasks, err := f.tasks.TasksForDate(ctx, "alice", today)
	require.NoError(t, err)
	assert.Equal(t, 3, dayTasks.TotalCount)
	assert.Equal(t, 2, dayTasks.CompletedCount)
	assert.InDelta(t, 66.67, dayTasks.CompletionRate, 0.01)

	empty, err := f.tasks.TasksForDate(ctx, "alice", today.AddDays(5))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalCount)
	assert.Zero(t, empty.CompletionRate)
	assert.NotNil(t, empty.Tasks)
}

type brokenStreaks struct{}

func (brokenStreaks) LoadStreak(_ context.Context, userID string) (streak.Record, error) {
	return streak.NewRecord(userID), nil
}

func (brokenStreaks) SaveStreak(context.Context, streak.Record) error {
	return errors.New("streak store offline")
}

func TestSetCompletionLeavesTaskUntouchedWhenStreakFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	engine := streak.NewEngine(streak.WithClock(func() time.Time { return fixedNow }))
	broken := NewStreakService(brokenStreaks{}, engine, false, zap.NewNop())
	tasks := NewTaskService(f.store, broken, zap.NewNop())
	tasks.now = func() time.Time { return fixedNow }

	created, err := tasks.CreateTask(ctx, "alice", &task.CreateTaskRequest{Title: "Walk"})
	require.NoError(t, err)

	_, err = tasks.SetCompletion(ctx, "alice", created.ID, day("2024-01-10"), true)
	require.Error(t, err)

	stored, err := f.store.GetTask(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.CompletionHistory)
	assert.False(t, stored.Completed)
}
