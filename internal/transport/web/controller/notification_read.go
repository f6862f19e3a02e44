package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type NotificationRead struct {
	Marker datasources.NotificationReadMarker
}

func (c NotificationRead) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	notificationID, err := strconv.ParseInt(mux.Vars(r)["notification_id"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	userID := domain.UserIDFromContext(r.Context())

	err = c.Marker.MarkNotificationRead(r.Context(), userID, notificationID)
	if errors.Is(err, domain.ErrNotificationNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		logger := domain.LoggerFromContext(r.Context())
		logger.ErrorContext(r.Context(), "unable to mark notification read", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
