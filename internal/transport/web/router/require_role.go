package router

import (
	"errors"
	"net/http"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

// newRequireReviewerMiddleware restricts an endpoint to moderators and admins.
// The resolved role is attached to the request context for downstream handlers.
func newRequireReviewerMiddleware(roles datasources.UserRoleGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := domain.UserIDFromContext(ctx)
			if userID == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			role, err := roles.GetUserRole(ctx, userID)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				logger := domain.LoggerFromContext(ctx)
				logger.ErrorContext(ctx, "unable to resolve user role", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			if !role.CanReview() {
				logger := domain.LoggerFromContext(ctx)
				logger.WarnContext(ctx, "user lacks moderation permissions",
					"user_id", userID,
					"role", role,
				)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.ContextWithUserRole(ctx, role)))
		})
	}
}
