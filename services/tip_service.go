package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tendrilAPI/internal/rewrite"
	"tendrilAPI/internal/store"
	"tendrilAPI/internal/types/tip"
	"tendrilAPI/utils"
)

type TipService struct {
	store    store.TipStore
	provider rewrite.Provider
	logger   *zap.Logger
	now      func() time.Time
}

func NewTipService(s store.TipStore, provider rewrite.Provider, logger *zap.Logger) *TipService {
	return &TipService{store: s, provider: provider, logger: logger, now: time.Now}
}

func (s *TipService) ListTips(ctx context.Context) ([]*tip.Tip, error) {
	return s.store.ListTips(ctx)
}

func (s *TipService) FeaturedTips(ctx context.Context) ([]*tip.Tip, error) {
	all, err := s.store.ListTips(ctx)
	if err != nil {
		return nil, err
	}
	featured := []*tip.Tip{}
	for _, t := range all {
		if t.IsFeatured {
			featured = append(featured, t)
		}
	}
	return featured, nil
}

func (s *TipService) RandomTip(ctx context.Context) (*tip.Tip, error) {
	all, err := s.store.ListTips(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no tips available: %w", store.ErrNotFound)
	}
	return all[rand.IntN(len(all))], nil
}

func (s *TipService) CreateTip(ctx context.Context, req *tip.CreateTipRequest) (*tip.Tip, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, validationf("content is required")
	}

	t := &tip.Tip{
		ID:         uuid.New().String(),
		Content:    content,
		Author:     strings.TrimSpace(req.Author),
		Category:   strings.TrimSpace(req.Category),
		CreatedAt:  s.now(),
		IsFeatured: req.IsFeatured,
	}
	if err := s.store.CreateTip(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tip: %w", err)
	}
	return t, nil
}

// Affirmation asks the rewrite provider for a fresh affirmation and falls
// back to the built-in list when it cannot deliver one.
func (s *TipService) Affirmation(ctx context.Context) *tip.Affirmation {
	text, err := rewrite.Affirmation(ctx, s.provider)
	if err == nil {
		return &tip.Affirmation{Text: text, Generated: true}
	}
	s.logger.Debug("using built-in affirmation", zap.Error(err))
	return &tip.Affirmation{Text: utils.RandomAffirmation()}
}
