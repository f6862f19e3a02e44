package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/domain"
)

type CardsList struct {
	Lister interface {
		datasources.CardIDsLister
		datasources.CardFetcher
		datasources.CardCounter
	}
	CacheMaxAge time.Duration
}

type CardsListResponse struct {
	Data     []domain.Card      `json:"data"`
	Metadata PaginationMetadata `json:"metadata"`
}

func (c CardsList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filters, err := cardFiltersFromQuery(r.URL.Query())
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to parse card filters in query string", "error", err)

		w.WriteHeader(http.StatusBadRequest)
		return
	}

	options, err := cardListOptionsFromQuery(r.URL.Query())
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to parse card list options in query string", "error", err)

		w.WriteHeader(http.StatusBadRequest)
		return
	}

	cardIDs, err := c.Lister.ListCardIDs(r.Context(), filters, options)
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch card IDs", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	cards, err := c.Lister.FetchCardsByID(r.Context(), cardIDs)
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to fetch card metadata", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	total, err := c.Lister.TotalMatchingCards(r.Context(), filters)
	if err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to count matching cards", "error", err)

		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	if err := json.NewEncoder(w).Encode(CardsListResponse{
		Data: cards,
		Metadata: PaginationMetadata{
			Page:       options.Page,
			PageSize:   options.PageSize,
			TotalCount: total,
		},
	}); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write cards to response", "error", err)
	}
}

func cardFiltersFromQuery(q url.Values) (domain.CardFilters, error) {
	// Listing only ever shows cards that cleared moderation.
	filters := domain.CardFilters{OnlyApproved: true}

	if q.Has("search") {
		filters.TitleFulltext = q.Get("search")
	}

	if q.Has("categories") {
		for _, raw := range strings.Split(q.Get("categories"), ",") {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return domain.CardFilters{}, fmt.Errorf("unable to parse category ID [%s]: %w", raw, err)
			}
			filters.CategoryIDs = append(filters.CategoryIDs, id)
		}
	}

	if q.Has("tags") {
		filters.Tags = strings.Split(q.Get("tags"), ",")
	}

	if q.Has("price_min") {
		min, err := strconv.ParseFloat(q.Get("price_min"), 64)
		if err != nil {
			return domain.CardFilters{}, fmt.Errorf("unable to parse price_min: %w", err)
		}
		filters.PriceMin = &min
	}

	if q.Has("price_max") {
		max, err := strconv.ParseFloat(q.Get("price_max"), 64)
		if err != nil {
			return domain.CardFilters{}, fmt.Errorf("unable to parse price_max: %w", err)
		}
		filters.PriceMax = &max
	}

	return filters, nil
}

func cardListOptionsFromQuery(q url.Values) (domain.CardListOptions, error) {
	var options domain.CardListOptions

	page, pageSize, err := parsePagination(q)
	if err != nil {
		return domain.CardListOptions{}, err
	}
	options.Page = page
	options.PageSize = pageSize

	if q.Has("sort") {
		orderings := strings.Split(q.Get("sort"), ",")

		for _, ordering := range orderings {
			field := ordering
			desc := false
			if strings.HasSuffix(ordering, "_desc") {
				field = ordering[:len(ordering)-5]
				desc = true
			}

			if !slices.Contains(domain.ValidCardOrderingFields, domain.CardOrderingField(field)) {
				return domain.CardListOptions{}, fmt.Errorf("unrecognised card ordering field: %s", field)
			}

			options.Ordering = append(options.Ordering, domain.CardOrdering{
				Field: domain.CardOrderingField(field),
				Desc:  desc,
			})
		}
	}

	return options, nil
}
