package controller

import (
	"encoding/json"
	"net/http"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type NotificationsUnreadCount struct {
	Counter datasources.UnreadNotificationCounter
}

type NotificationsUnreadCountResponse struct {
	Count int64 `json:"count"`
}

func (c NotificationsUnreadCount) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserIDFromContext(r.Context())

	count, err := c.Counter.CountUnreadNotifications(r.Context(), userID)
	if err != nil {
		logger := domain.LoggerFromContext(r.Context())
		logger.ErrorContext(r.Context(), "unable to count unread notifications", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(NotificationsUnreadCountResponse{Count: count}); err != nil {
		logger := domain.LoggerFromContext(r.Context())
		logger.ErrorContext(r.Context(), "unable to write unread count to response", "error", err)
	}
}
