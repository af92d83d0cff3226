package rewrite

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
)

// ResilientProvider retries the inner provider and bounds the whole call.
type ResilientProvider struct {
	inner   Provider
	retry   retry.Config
	timeout time.Duration
}

func NewResilientProvider(inner Provider, callTimeout time.Duration) *ResilientProvider {
	return &ResilientProvider{
		inner: inner,
		retry: retry.Config{
			MaxAttempts:   2,
			InitialDelay:  500 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
		timeout: callTimeout,
	}
}

func (p *ResilientProvider) ID() string {
	return p.inner.ID()
}

func (p *ResilientProvider) Complete(ctx context.Context, req Request) (string, error) {
	r := retry.New[string](p.retry)
	t := timeout.New[string](timeout.Config{
		DefaultTimeout: p.timeout,
	})

	return t.Execute(ctx, p.timeout, func(ctx context.Context) (string, error) {
		return r.Do(ctx, func(ctx context.Context) (string, error) {
			return p.inner.Complete(ctx, req)
		})
	})
}
