// Package jsonfile keeps every collection in its own JSON file under one
// data directory. Writes replace the whole file through a temp file and a
// rename; a single mutex serializes all access within the process.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

const (
	TasksFile    = "tasks.json"
	PostsFile    = "posts.json"
	CommentsFile = "comments.json"
	TipsFile     = "tips.json"
	StreaksFile  = "streaks.json"
)

type Store struct {
	root        string
	mu          sync.Mutex
	retryConfig retry.Config
}

func New(root string) (*Store, error) {
	// G301: Use 0700 for directories
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}, nil
}

// Ping checks that the data directory is still there and writable.
func (s *Store) Ping(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.root)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

// load decodes the named file into a T. A missing file yields the zero T.
// Only the read is retried; a file that does not decode fails at once.
func load[T any](ctx context.Context, s *Store, name string) (T, error) {
	var out T

	retryer := retry.New[[]byte](s.retryConfig)
	data, err := retryer.Do(ctx, func(ctx context.Context) ([]byte, error) {
		// #nosec G304 -- name is one of the package constants
		data, err := os.ReadFile(filepath.Join(s.root, name))
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return data, nil
	})
	if err != nil {
		return out, err
	}
	if len(data) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return out, nil
}

// save writes v to the named file atomically.
func (s *Store) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.root, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	// G306: Use 0600 for files
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.root, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
