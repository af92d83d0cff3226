package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/store/jsonfile"
	"tendrilAPI/internal/streak"
)

type memStreaks struct {
	records map[string]streak.Record
	pingErr error
	closed  bool
}

func (m *memStreaks) LoadStreak(_ context.Context, userID string) (streak.Record, error) {
	if rec, ok := m.records[userID]; ok {
		return rec, nil
	}
	return streak.NewRecord(userID), nil
}

func (m *memStreaks) SaveStreak(_ context.Context, rec streak.Record) error {
	m.records[rec.UserID] = rec
	return nil
}

func (m *memStreaks) Ping(context.Context) error { return m.pingErr }

func (m *memStreaks) Close() error {
	m.closed = true
	return nil
}

func TestWithStreakBackend(t *testing.T) {
	ctx := context.Background()
	base, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)

	streaks := &memStreaks{records: map[string]streak.Record{}}
	s := store.WithStreakBackend(base, streaks)

	rec := streak.NewRecord("alice")
	rec.CurrentStreak = 4
	require.NoError(t, s.SaveStreak(ctx, rec))
	assert.Equal(t, 4, streaks.records["alice"].CurrentStreak)

	fromBase, err := base.LoadStreak(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, fromBase.CurrentStreak)

	assert.NoError(t, s.Ping(ctx))
	streaks.pingErr = errors.New("down")
	assert.Error(t, s.Ping(ctx))

	require.NoError(t, s.Close())
	assert.True(t, streaks.closed)
}
