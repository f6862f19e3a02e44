package router

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

// RateLimitClass is a named request budget over a fixed window.
type RateLimitClass struct {
	Name   string
	Limit  int64
	Window time.Duration
}

// Default request budgets per client per minute.
var (
	RateLimitDefault = RateLimitClass{Name: "default", Limit: 100, Window: time.Minute}
	RateLimitWrite   = RateLimitClass{Name: "write", Limit: 30, Window: time.Minute}
)

// newRateLimitMiddleware enforces a fixed-window request budget per client.
// Authenticated clients are keyed by user ID, anonymous ones by remote IP.
// Store failures fail open: limiting is protection, not a correctness
// requirement.
func newRateLimitMiddleware(store datasources.RateLimitStore, class RateLimitClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := "ratelimit:" + class.Name + ":" + clientKey(r)

			count, resetIn, err := store.Increment(ctx, key, class.Window)
			if err != nil {
				logger := domain.LoggerFromContext(ctx)
				logger.WarnContext(ctx, "rate limit store unavailable, allowing request", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			remaining := class.Limit - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(class.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > class.Limit {
				w.Header().Set("Retry-After", strconv.Itoa(int(resetIn.Seconds())+1))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if userID := domain.UserIDFromContext(r.Context()); userID != "" {
		return "user:" + userID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
