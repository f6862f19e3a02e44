package datasources

import (
	"context"
	"time"
)

// RateLimitStore counts requests per key over a fixed window. Increment
// returns the count within the current window including this request, and
// the time remaining until the window resets.
//
// Implementations must be safe for concurrent use. The Redis implementation
// is coherent across instances; the in-memory one is per-process only.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}
