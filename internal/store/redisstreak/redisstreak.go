// Package redisstreak keeps streak records in Redis as one JSON value per
// identity. It only serves streaks; everything else stays in the primary
// backend.
package redisstreak

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tendrilAPI/internal/streak"
)

const keyPrefix = "tendril:streak:"

type Store struct {
	rdb *redis.Client
}

// Open parses a redis:// URL and checks the connection.
func Open(ctx context.Context, redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

func key(userID string) string {
	return keyPrefix + userID
}

func (s *Store) LoadStreak(ctx context.Context, userID string) (streak.Record, error) {
	data, err := s.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return streak.NewRecord(userID), nil
	}
	if err != nil {
		return streak.Record{}, fmt.Errorf("failed to load streak: %w", err)
	}

	var rec streak.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return streak.Record{}, fmt.Errorf("failed to decode streak for %s: %w", userID, err)
	}
	rec.UserID = userID
	return rec, nil
}

func (s *Store) SaveStreak(ctx context.Context, rec streak.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode streak: %w", err)
	}
	if err := s.rdb.Set(ctx, key(rec.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
