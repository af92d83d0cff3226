// Package ratelimit keeps per-key request limits (client IP, identity) and
// forgets keys that have been idle for a while.
//
// A Limiter built with New is a token bucket per key. One built with
// PerWindow is a strict sliding window: a key may make at most n requests in
// any span of the window's length.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	hits     []time.Time
	lastSeen time.Time
}

type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	window   time.Duration
	now      func() time.Time
}

func New(limit rate.Limit, burst int) *Limiter {
	return &Limiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		now:      time.Now,
	}
}

// PerWindow allows n requests per key within any window-long span.
func PerWindow(n int, window time.Duration) *Limiter {
	l := New(0, max(n, 1))
	l.window = window
	return l
}

// WithClock swaps the time source. Tests only.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v := l.get(key, now)
	if l.window == 0 {
		return v.limiter.AllowN(now, 1)
	}

	v.hits = l.inWindow(v.hits, now)
	if len(v.hits) >= l.burst {
		return false
	}
	v.hits = append(v.hits, now)
	return true
}

// Remaining is how many requests key could make right now.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		return l.burst
	}
	now := l.now()
	if l.window == 0 {
		return max(0, int(math.Floor(v.limiter.TokensAt(now))))
	}
	return max(0, l.burst-len(l.inWindow(v.hits, now)))
}

func (l *Limiter) Burst() int {
	return l.burst
}

// Window is the sliding window length, zero for a token bucket.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Cleanup drops keys not seen for idle and reports how many were removed.
// A sliding-window key is kept while any of its requests still count.
func (l *Limiter) Cleanup(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) <= idle {
			continue
		}
		if l.window > 0 {
			if v.hits = l.inWindow(v.hits, now); len(v.hits) > 0 {
				continue
			}
		}
		delete(l.visitors, key)
		removed++
	}
	return removed
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *Limiter) get(key string, now time.Time) *visitor {
	v, exists := l.visitors[key]
	if !exists {
		v = &visitor{}
		if l.window == 0 {
			v.limiter = rate.NewLimiter(l.limit, l.burst)
		}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v
}

// inWindow drops the hits that are a full window or more in the past. hits
// is in arrival order.
func (l *Limiter) inWindow(hits []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(hits) && now.Sub(hits[i]) >= l.window {
		i++
	}
	return hits[i:]
}
