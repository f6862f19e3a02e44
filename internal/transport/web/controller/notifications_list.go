package controller

import (
	"encoding/json"
	"net/http"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type NotificationsList struct {
	Lister datasources.NotificationLister
}

type NotificationsListResponse struct {
	Data     []domain.Notification `json:"data"`
	Metadata PaginationMetadata    `json:"metadata"`
}

func (c NotificationsList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := domain.LoggerFromContext(r.Context())

	page, pageSize, err := parsePagination(r.URL.Query())
	if err != nil {
		logger.ErrorContext(r.Context(), "unable to parse pagination in query string", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	userID := domain.UserIDFromContext(r.Context())

	notifications, total, err := c.Lister.ListNotifications(r.Context(), userID, page, pageSize)
	if err != nil {
		logger.ErrorContext(r.Context(), "unable to list notifications", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(NotificationsListResponse{
		Data: notifications,
		Metadata: PaginationMetadata{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: total,
		},
	}); err != nil {
		logger.ErrorContext(r.Context(), "unable to write notifications to response", "error", err)
	}
}
