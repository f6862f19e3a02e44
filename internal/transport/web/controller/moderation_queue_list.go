package controller

import (
	"encoding/json"
	"net/http"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type ModerationQueueList struct {
	Lister datasources.ModerationQueueLister
}

type ModerationQueueListResponse struct {
	Data     []domain.ModerationQueueEntry `json:"data"`
	Metadata PaginationMetadata            `json:"metadata"`
}

func (c ModerationQueueList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := domain.LoggerFromContext(r.Context())

	page, pageSize, err := parsePagination(r.URL.Query())
	if err != nil {
		logger.ErrorContext(r.Context(), "unable to parse pagination in query string", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var filters domain.ModerationQueueFilters
	if r.URL.Query().Has("status") {
		status := domain.ModerationStatus(r.URL.Query().Get("status"))
		switch status {
		case domain.ModerationStatusPending, domain.ModerationStatusApproved,
			domain.ModerationStatusRejected, domain.ModerationStatusNeedsReview:
			filters.Status = &status
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	entries, total, err := c.Lister.ListModerationQueue(r.Context(), filters, page, pageSize)
	if err != nil {
		logger.ErrorContext(r.Context(), "unable to list moderation queue", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ModerationQueueListResponse{
		Data: entries,
		Metadata: PaginationMetadata{
			Page:       page,
			PageSize:   pageSize,
			TotalCount: total,
		},
	}); err != nil {
		logger.ErrorContext(r.Context(), "unable to write moderation queue to response", "error", err)
	}
}
