package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/toolgrove/marketplace/internal/command"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
	"github.com/toolgrove/marketplace/internal/transport/web/controller"
)

// Commands groups the use cases exposed over HTTP.
type Commands struct {
	CreateCard       command.Command[command.CreateCardRequest, command.CreateCardResponse]
	SubmitCard       command.Command[command.SubmitForModerationRequest, command.SubmitForModerationResponse]
	ReviewCard       command.Command[command.ReviewCardRequest, command.Empty]
	ToggleLike       command.Command[command.ToggleCardLikeRequest, command.ToggleCardLikeResponse]
	TrackInteraction command.Command[command.TrackInteractionRequest, command.Empty]
	RecommendCards   command.Command[command.RecommendCardsRequest, []domain.RecommendedCard]
}

func MakeRouter(
	dataset datasources.DatasetRepository,
	rateLimits datasources.RateLimitStore,
	commands Commands,
	rssFeedBaseURL, rssFeedAuthorName, rssFeedAuthorEmail string,
	latestCacheMaxAge time.Duration,
	authMiddleware func(http.Handler) http.Handler,
) (http.Handler, error) {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(authMiddleware)
	r.Use(newRateLimitMiddleware(rateLimits, RateLimitDefault))

	writeLimited := newRateLimitMiddleware(rateLimits, RateLimitWrite)
	requireReviewer := newRequireReviewerMiddleware(dataset)

	r.Handle("/v1/cards", controller.CardsList{
		Lister:      dataset,
		CacheMaxAge: latestCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/cards", requireAuthMiddleware(writeLimited(controller.CardCreate{
		CreateCmd: commands.CreateCard,
	}))).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/cards/{card_id}", controller.CardGet{
		Fetcher:     dataset,
		ViewCounter: dataset,
		CacheMaxAge: latestCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/cards/{card_id}/like", requireAuthMiddleware(writeLimited(controller.CardLike{
		ToggleCmd: commands.ToggleLike,
	}))).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/cards/{card_id}/interactions", requireAuthMiddleware(writeLimited(controller.InteractionTrack{
		TrackCmd: commands.TrackInteraction,
	}))).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/cards/{card_id}/submit", requireAuthMiddleware(writeLimited(controller.ModerationSubmit{
		Fetcher:   dataset,
		SubmitCmd: commands.SubmitCard,
	}))).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/moderation/queue", requireAuthMiddleware(requireReviewer(controller.ModerationQueueList{
		Lister: dataset,
	}))).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/moderation/cards/{card_id}/review",
		requireAuthMiddleware(requireReviewer(writeLimited(controller.ModerationReview{
			ReviewCmd: commands.ReviewCard,
		})))).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/moderation/stats", requireAuthMiddleware(requireReviewer(controller.ModerationStats{
		Getter: dataset,
	}))).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/recommendations", requireAuthMiddleware(controller.RecommendationsList{
		RecommendCmd: commands.RecommendCards,
	})).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/notifications", requireAuthMiddleware(controller.NotificationsList{
		Lister: dataset,
	})).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/notifications/unread-count", requireAuthMiddleware(controller.NotificationsUnreadCount{
		Counter: dataset,
	})).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/notifications/read-all", requireAuthMiddleware(controller.NotificationsReadAll{
		Marker: dataset,
	})).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/notifications/{notification_id}/read", requireAuthMiddleware(controller.NotificationRead{
		Marker: dataset,
	})).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/rss", controller.RSS{
		FeedHostname:    rssFeedBaseURL,
		FeedPath:        "/rss",
		FeedAuthorName:  rssFeedAuthorName,
		FeedAuthorEmail: rssFeedAuthorEmail,
		Dataset:         dataset,
		CacheMaxAge:     latestCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	return r, nil
}
