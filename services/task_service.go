package services

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/types/calendar"
	"tendrilAPI/internal/types/task"
)

type TaskService struct {
	store   store.TaskStore
	streaks *StreakService
	logger  *zap.Logger
	now     func() time.Time
}

func NewTaskService(s store.TaskStore, streaks *StreakService, logger *zap.Logger) *TaskService {
	return &TaskService{
		store:   s,
		streaks: streaks,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]*task.Task, error) {
	return s.store.ListTasks(ctx, userID)
}

func (s *TaskService) CreateTask(ctx context.Context, userID string, req *task.CreateTaskRequest) (*task.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if err := s.validateDueDate(req.DueDate); err != nil {
		return nil, err
	}

	t := &task.Task{
		ID:                uuid.New().String(),
		UserID:            userID,
		Title:             title,
		Description:       req.Description,
		Completed:         req.Completed,
		DueDate:           req.DueDate,
		CompletionHistory: make(map[civil.Date]bool),
		CreatedAt:         s.now(),
	}
	maps.Copy(t.CompletionHistory, req.CompletionHistory)

	if err := s.store.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, req *task.UpdateTaskRequest) (*task.Task, error) {
	existing, err := s.store.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if err := s.validateDueDate(req.DueDate); err != nil {
		return nil, err
	}

	existing.Title = title
	existing.Description = req.Description
	existing.Completed = req.Completed
	existing.DueDate = req.DueDate
	if req.CompletionHistory != nil {
		existing.CompletionHistory = req.CompletionHistory
	}

	if err := s.store.SaveTask(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return existing, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	return s.store.DeleteTask(ctx, userID, taskID)
}

// SetCompletion records whether the task was done on d. The general flag
// follows today's entry, and marking a date done counts toward the streak.
func (s *TaskService) SetCompletion(ctx context.Context, userID, taskID string, d civil.Date, completed bool) (*task.CompletionUpdate, error) {
	if err := s.streaks.ValidateCompletionDate(d); err != nil {
		return nil, err
	}

	t, err := s.store.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	// The streak goes first: if it fails the task is left untouched, and a
	// retry records the day at most once.
	if completed {
		if _, _, err := s.streaks.RecordCompletion(ctx, userID, d); err != nil {
			return nil, err
		}
	}

	if t.CompletionHistory == nil {
		t.CompletionHistory = make(map[civil.Date]bool)
	}
	t.CompletionHistory[d] = completed
	if done, ok := t.CompletionHistory[s.streaks.Today()]; ok {
		t.Completed = done
	}

	if err := s.store.SaveTask(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save task completion: %w", err)
	}

	return &task.CompletionUpdate{
		Message:   fmt.Sprintf("Task completion updated for %s", d),
		TaskID:    taskID,
		Date:      d,
		Completed: completed,
		Task:      t,
	}, nil
}

// TasksForDate lists the tasks due on d, each carrying its completion for d.
func (s *TaskService) TasksForDate(ctx context.Context, userID string, d civil.Date) (*calendar.DayTasks, error) {
	all, err := s.store.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	day := &calendar.DayTasks{Date: d, Tasks: []*task.Task{}}
	for _, t := range all {
		if !t.DueOn(d) {
			continue
		}
		view := *t
		view.Completed = t.CompletedOn(d)
		day.Tasks = append(day.Tasks, &view)
		if view.Completed {
			day.CompletedCount++
		}
	}

	day.TotalCount = len(day.Tasks)
	if day.TotalCount > 0 {
		day.CompletionRate = float64(day.CompletedCount) / float64(day.TotalCount) * 100
	}
	return day, nil
}

func (s *TaskService) validateDueDate(due *civil.Date) error {
	if due == nil {
		return nil
	}
	if !due.IsValid() {
		return validationf("invalid due date")
	}
	if due.Before(s.streaks.Today()) {
		return validationf("Due date cannot be in the past. Please select today or a future date.")
	}
	return nil
}
