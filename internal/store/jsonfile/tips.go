package jsonfile

import (
	"context"

	"tendrilAPI/internal/types/tip"
)

func (s *Store) ListTips(ctx context.Context) ([]*tip.Tip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tips, err := load[[]*tip.Tip](ctx, s, TipsFile)
	if err != nil {
		return nil, err
	}
	if tips == nil {
		tips = []*tip.Tip{}
	}
	return tips, nil
}

func (s *Store) CreateTip(ctx context.Context, t *tip.Tip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tips, err := load[[]*tip.Tip](ctx, s, TipsFile)
	if err != nil {
		return err
	}
	return s.save(TipsFile, append(tips, t))
}
