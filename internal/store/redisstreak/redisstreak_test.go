package redisstreak

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/streak"
)

var _ store.StreakBackend = (*Store)(nil)

func TestStreakRoundTrip(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, redisURL)
	require.NoError(t, err)
	defer s.Close()

	userID := "test-" + uuid.NewString()
	t.Cleanup(func() { s.rdb.Del(context.Background(), key(userID)) })

	rec, err := s.LoadStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, streak.NewRecord(userID), rec)

	last := civil.Date{Year: 2024, Month: 1, Day: 10}
	rec.CompletionDates = []civil.Date{last.AddDays(-1), last}
	rec.CurrentStreak = 2
	rec.LongestStreak = 2
	rec.LastCompletionDate = &last
	require.NoError(t, s.SaveStreak(ctx, rec))

	got, err := s.LoadStreak(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, rec.CompletionDates, got.CompletionDates)
	assert.Equal(t, 2, got.LongestStreak)
}

func TestOpenRejectsBadURL(t *testing.T) {
	_, err := Open(context.Background(), "not-a-url")
	assert.Error(t, err)
}
