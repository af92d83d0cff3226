package jsonfile

import (
	"context"

	"tendrilAPI/internal/streak"
)

func (s *Store) LoadStreak(ctx context.Context, userID string) (streak.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := load[map[string]streak.Record](ctx, s, StreaksFile)
	if err != nil {
		return streak.Record{}, err
	}

	rec, ok := all[userID]
	if !ok {
		return streak.NewRecord(userID), nil
	}
	rec.UserID = userID
	return rec, nil
}

func (s *Store) SaveStreak(ctx context.Context, rec streak.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := load[map[string]streak.Record](ctx, s, StreaksFile)
	if err != nil {
		return err
	}
	if all == nil {
		all = make(map[string]streak.Record)
	}
	all[rec.UserID] = rec
	return s.save(StreaksFile, all)
}
