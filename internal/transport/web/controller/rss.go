package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type RSS struct {
	FeedHostname    string
	FeedPath        string
	FeedAuthorName  string
	FeedAuthorEmail string
	Dataset         datasources.DatasetRepository
	CacheMaxAge     time.Duration
}

func (c RSS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	feed := &feeds.Feed{
		Title:       "Toolgrove Marketplace",
		Link:        &feeds.Link{Href: c.FeedHostname + c.FeedPath},
		Description: "Feed of new AI tools published on the marketplace",
		Author:      &feeds.Author{Name: c.FeedAuthorName, Email: c.FeedAuthorEmail},
		Created:     time.Now(),
	}

	filters := domain.CardFilters{OnlyApproved: true}
	options := domain.CardListOptions{
		Ordering: []domain.CardOrdering{{Field: domain.CardOrderingFieldCreatedAt, Desc: true}},
		Page:     1,
		PageSize: defaultPageSize,
	}

	cardIDs, err := c.Dataset.ListCardIDs(r.Context(), filters, options)
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch card IDs for feed", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	cards, err := c.Dataset.FetchCardsByID(r.Context(), cardIDs)
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch cards for feed", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	for _, card := range cards {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("%d", card.ID),
			IsPermaLink: "false",
			Title:       card.Title,
			Link:        &feeds.Link{Href: c.FeedHostname + "/cards/" + card.Slug},
			Description: card.Description,
			Created:     card.CreatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to format feed as RSS", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	if _, err := w.Write([]byte(rss)); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write feed to response", "error", err)
	}
}
