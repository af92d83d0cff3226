package services

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/streak"
)

// StreakService owns the load, compute, save cycle around the streak engine.
// Calls for the same identity are serialized; different identities run in
// parallel.
type StreakService struct {
	store       store.StreakStore
	engine      *streak.Engine
	allowFuture bool
	logger      *zap.Logger
	locks       identityLocks
}

func NewStreakService(s store.StreakStore, engine *streak.Engine, allowFuture bool, logger *zap.Logger) *StreakService {
	return &StreakService{
		store:       s,
		engine:      engine,
		allowFuture: allowFuture,
		logger:      logger,
		locks:       identityLocks{m: make(map[string]*identityLock)},
	}
}

func (s *StreakService) Today() civil.Date {
	return s.engine.Today()
}

// ValidateCompletionDate rejects dates after today unless future completions
// are enabled.
func (s *StreakService) ValidateCompletionDate(d civil.Date) error {
	if !d.IsValid() {
		return validationf("invalid date %s", d)
	}
	if today := s.Today(); d.After(today) && !s.allowFuture {
		return validationf("completion date %s is after today (%s)", d, today)
	}
	return nil
}

func (s *StreakService) GetRecord(ctx context.Context, userID string) (streak.Record, error) {
	rec, err := s.store.LoadStreak(ctx, userID)
	if err != nil {
		return streak.Record{}, fmt.Errorf("failed to load streak: %w", err)
	}
	return streak.Normalize(rec, s.Today()), nil
}

func (s *StreakService) GetSummary(ctx context.Context, userID string) (streak.Summary, error) {
	rec, err := s.GetRecord(ctx, userID)
	if err != nil {
		return streak.Summary{}, err
	}
	return s.engine.Summarize(rec), nil
}

// RecordCompletion adds d to the identity's streak and saves the result.
// Recording a date twice is a no-op: nothing is written and the second
// return value is false.
func (s *StreakService) RecordCompletion(ctx context.Context, userID string, d civil.Date) (streak.Summary, bool, error) {
	if err := s.ValidateCompletionDate(d); err != nil {
		return streak.Summary{}, false, err
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	rec, err := s.GetRecord(ctx, userID)
	if err != nil {
		return streak.Summary{}, false, err
	}

	updated, changed := s.engine.RecordCompletion(rec, d)
	if !changed {
		streakCompletions.WithLabelValues("duplicate").Inc()
		return s.engine.Summarize(rec), false, nil
	}

	if err := s.store.SaveStreak(ctx, updated); err != nil {
		return streak.Summary{}, false, fmt.Errorf("failed to save streak: %w", err)
	}
	streakCompletions.WithLabelValues("recorded").Inc()

	s.logger.Info("streak completion recorded",
		zap.String("user_id", userID),
		zap.Stringer("date", d),
		zap.Int("current_streak", updated.CurrentStreak),
		zap.Int("longest_streak", updated.LongestStreak),
	)
	return s.engine.Summarize(updated), true, nil
}

type identityLock struct {
	sync.Mutex
	refs int
}

// identityLocks hands out one mutex per identity and drops it once nobody
// holds or waits on it.
type identityLocks struct {
	mu sync.Mutex
	m  map[string]*identityLock
}

func (l *identityLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.m[id]
	if !ok {
		entry = &identityLock{}
		l.m[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.Lock()
	return func() {
		entry.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
