package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tendrilAPI/internal/rewrite"
	"tendrilAPI/internal/store/jsonfile"
	"tendrilAPI/internal/streak"
)

// fixedNow is 2024-01-10 09:00 UTC.
var fixedNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func day(s string) civil.Date {
	d, err := civil.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	store   *jsonfile.Store
	streaks *StreakService
	tasks   *TaskService
}

func newFixture(t *testing.T, allowFuture bool) *fixture {
	t.Helper()
	s, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)

	engine := streak.NewEngine(streak.WithClock(func() time.Time { return fixedNow }))
	streaks := NewStreakService(s, engine, allowFuture, zap.NewNop())
	tasks := NewTaskService(s, streaks, zap.NewNop())
	tasks.now = func() time.Time { return fixedNow }

	return &fixture{store: s, streaks: streaks, tasks: tasks}
}

type stubProvider struct {
	text  string
	err   error
	calls int
}

func (p *stubProvider) ID() string { return "stub" }

func (p *stubProvider) Complete(context.Context, rewrite.Request) (string, error) {
	p.calls++
	return p.text, p.err
}

var errProvider = errors.New("provider down")
