package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"tendrilAPI/internal/store"
	"tendrilAPI/internal/store/storetest"
)

var _ store.Store = (*Store)(nil)

func TestStore(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.db.Exec(ctx, `
		TRUNCATE streak_completions, streaks, task_completions, tasks,
			comment_reactions, comments, post_reactions, posts, tips
	`)
	require.NoError(t, err)

	storetest.Run(t, s)
}
