package controller

import (
	"net/http"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type NotificationsReadAll struct {
	Marker datasources.NotificationReadMarker
}

func (c NotificationsReadAll) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserIDFromContext(r.Context())

	if err := c.Marker.MarkAllNotificationsRead(r.Context(), userID); err != nil {
		logger := domain.LoggerFromContext(r.Context())
		logger.ErrorContext(r.Context(), "unable to mark all notifications read", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
