package jsonfile

import (
	"context"
	"fmt"
	"slices"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/types/task"
)

func (s *Store) ListTasks(ctx context.Context, userID string) ([]*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := load[[]*task.Task](ctx, s, TasksFile)
	if err != nil {
		return nil, err
	}

	tasks := make([]*task.Task, 0, len(all))
	for _, t := range all {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *Store) GetTask(ctx context.Context, userID, taskID string) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := load[[]*task.Task](ctx, s, TasksFile)
	if err != nil {
		return nil, err
	}

	for _, t := range all {
		if t.ID == taskID && t.UserID == userID {
			return t, nil
		}
	}
	return nil, fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
}

func (s *Store) SaveTask(ctx context.Context, t *task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := load[[]*task.Task](ctx, s, TasksFile)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(all, func(existing *task.Task) bool { return existing.ID == t.ID })
	if i >= 0 {
		all[i] = t
	} else {
		all = append(all, t)
	}
	return s.save(TasksFile, all)
}

func (s *Store) DeleteTask(ctx context.Context, userID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := load[[]*task.Task](ctx, s, TasksFile)
	if err != nil {
		return err
	}

	owned := func(t *task.Task) bool {
		return t.ID == taskID && t.UserID == userID
	}
	if !slices.ContainsFunc(all, owned) {
		return fmt.Errorf("task %s: %w", taskID, store.ErrNotFound)
	}
	return s.save(TasksFile, slices.DeleteFunc(all, owned))
}
