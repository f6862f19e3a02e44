package memory

import (
	"context"
	"sync"
	"time"
)

// RateLimitStore is a fixed-window counter held in process memory. It is
// only coherent for a single-instance deployment; multi-instance setups
// should use the Redis store.
type RateLimitStore struct {
	mu      sync.Mutex
	windows map[string]*window

	sweepInterval time.Duration
}

type window struct {
	count   int64
	resetAt time.Time
}

func NewRateLimitStore(sweepInterval time.Duration) *RateLimitStore {
	return &RateLimitStore{
		windows:       make(map[string]*window),
		sweepInterval: sweepInterval,
	}
}

func (s *RateLimitStore) Increment(
	_ context.Context, key string, windowSize time.Duration,
) (int64, time.Duration, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{count: 0, resetAt: now.Add(windowSize)}
		s.windows[key] = w
	}
	w.count++

	return w.count, w.resetAt.Sub(now), nil
}

// Run sweeps expired windows until the context is cancelled, bounding the
// map's lifetime. Implements the app component interface.
func (s *RateLimitStore) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *RateLimitStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, w := range s.windows {
		if now.After(w.resetAt) {
			delete(s.windows, key)
		}
	}
}
