package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tendrilAPI/internal/rewrite"
	"tendrilAPI/internal/store"
	"tendrilAPI/internal/store/jsonfile"
	"tendrilAPI/internal/types/tip"
	"tendrilAPI/utils"
)

func newTipService(t *testing.T, p rewrite.Provider) *TipService {
	t.Helper()
	s, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	return NewTipService(s, p, zap.NewNop())
}

func TestTips(t *testing.T) {
	ctx := context.Background()
	svc := newTipService(t, rewrite.Unavailable{})

	_, err := svc.RandomTip(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.CreateTip(ctx, &tip.CreateTipRequest{Content: "  "})
	assert.ErrorIs(t, err, ErrValidation)

	plain, err := svc.CreateTip(ctx, &tip.CreateTipRequest{Content: "Drink water", Category: "health"})
	require.NoError(t, err)
	featured, err := svc.CreateTip(ctx, &tip.CreateTipRequest{Content: "Sleep early", IsFeatured: true})
	require.NoError(t, err)

	all, err := svc.ListTips(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyFeatured, err := svc.FeaturedTips(ctx)
	require.NoError(t, err)
	require.Len(t, onlyFeatured, 1)
	assert.Equal(t, featured.ID, onlyFeatured[0].ID)

	random, err := svc.RandomTip(ctx)
	require.NoError(t, err)
	assert.Contains(t, []string{plain.ID, featured.ID}, random.ID)
}

func TestAffirmation(t *testing.T) {
	ctx := context.Background()

	generated := newTipService(t, &stubProvider{text: "\"You are doing enough.\""}).Affirmation(ctx)
	assert.True(t, generated.Generated)
	assert.Equal(t, "You are doing enough.", generated.Text)

	fallback := newTipService(t, &stubProvider{err: errProvider}).Affirmation(ctx)
	assert.False(t, fallback.Generated)
	assert.Contains(t, utils.Affirmations(), fallback.Text)

	unavailable := newTipService(t, rewrite.Unavailable{}).Affirmation(ctx)
	assert.False(t, unavailable.Generated)
}
