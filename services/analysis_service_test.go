package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tendrilAPI/internal/ratelimit"
)

func TestFindNegativeWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"clean", "I went for a long walk today", []string{}},
		{"case insensitive", "I feel LAZY and Useless", []string{"lazy", "useless"}},
		{"whole words only", "the sickle was weakened", []string{}},
		{"phrase", "I really messed up again", []string{"messed up"}},
		{"punctuation", "hate, hate, hate!", []string{"hate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindNegativeWords(tt.text))
		})
	}
}

func TestAnalyzeRewrites(t *testing.T) {
	p := &stubProvider{text: "  I'm learning and that's okay.  "}
	svc := NewAnalysisService(p, ratelimit.PerWindow(10, time.Minute), time.Minute, zap.NewNop())

	res, err := svc.Analyze(context.Background(), "alice", "I am so lazy")
	require.NoError(t, err)
	assert.True(t, res.ContainsNegativeWords)
	assert.Equal(t, []string{"lazy"}, res.FoundWords)
	assert.True(t, res.SuggestionAvailable)
	require.NotNil(t, res.RewrittenText)
	assert.Equal(t, "I'm learning and that's okay.", *res.RewrittenText)
	assert.Nil(t, res.Error)
	require.NotNil(t, res.RateLimit)
	assert.Equal(t, 9, res.RateLimit.RemainingRequests)
	assert.Equal(t, 10, res.RateLimit.MaxRequests)
	assert.Equal(t, 60, res.RateLimit.WindowSeconds)
}

func TestAnalyzeSkipsProviderForCleanText(t *testing.T) {
	p := &stubProvider{text: "unused"}
	svc := NewAnalysisService(p, ratelimit.PerWindow(10, time.Minute), time.Minute, zap.NewNop())

	res, err := svc.Analyze(context.Background(), "alice", "a good day")
	require.NoError(t, err)
	assert.False(t, res.ContainsNegativeWords)
	assert.False(t, res.SuggestionAvailable)
	assert.Nil(t, res.RewrittenText)
	assert.Zero(t, p.calls)
}

func TestAnalyzeReportsRewriteFailure(t *testing.T) {
	p := &stubProvider{err: errProvider}
	svc := NewAnalysisService(p, ratelimit.PerWindow(10, time.Minute), time.Minute, zap.NewNop())

	res, err := svc.Analyze(context.Background(), "alice", "this is awful")
	require.NoError(t, err)
	assert.True(t, res.ContainsNegativeWords)
	assert.False(t, res.SuggestionAvailable)
	assert.Nil(t, res.RewrittenText)
	require.NotNil(t, res.Error)
	assert.Equal(t, "Unable to generate compassionate rewrite", *res.Error)
}

func TestAnalyzeRateLimited(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	limiter := ratelimit.PerWindow(2, time.Minute).WithClock(func() time.Time { return now })
	svc := NewAnalysisService(&stubProvider{text: "ok"}, limiter, time.Minute, zap.NewNop())
	ctx := context.Background()

	for range 2 {
		_, err := svc.Analyze(ctx, "alice", "fine")
		require.NoError(t, err)
	}
	_, err := svc.Analyze(ctx, "alice", "fine")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Zero(t, svc.Limits("alice").RemainingRequests)

	// quotas are per identity
	_, err = svc.Analyze(ctx, "bob", "fine")
	assert.NoError(t, err)
}

func TestAnalyzeQuotaHoldsOverAWholeWindow(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	limiter := ratelimit.PerWindow(10, time.Minute).WithClock(func() time.Time { return now })
	svc := NewAnalysisService(&stubProvider{text: "ok"}, limiter, time.Minute, zap.NewNop())

	allowed := 0
	for range 60 {
		if _, err := svc.Analyze(context.Background(), "alice", "fine"); err == nil {
			allowed++
		} else {
			require.ErrorIs(t, err, ErrRateLimited)
		}
		now = now.Add(time.Second)
	}
	assert.Equal(t, 10, allowed)
}
