package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/toolgrove/marketplace/internal/command"
	"github.com/toolgrove/marketplace/internal/datasources"
	"github.com/toolgrove/marketplace/internal/datasources/memory"
	"github.com/toolgrove/marketplace/internal/datasources/mysql"
	"github.com/toolgrove/marketplace/internal/datasources/redis"
	"github.com/toolgrove/marketplace/internal/domain"
	"github.com/toolgrove/marketplace/internal/events"
	"github.com/toolgrove/marketplace/internal/transport/web/router"
	"github.com/toolgrove/marketplace/internal/transport/web/server"
)

type Component interface {
	Run(ctx context.Context) error
}

func Setup(ctx context.Context) ([]Component, error) {
	dataset, err := setupDatasetRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up dataset repository: %w", err)
	}

	rateLimits, rateLimitComponents, err := setupRateLimitStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up rate limit store: %w", err)
	}

	authMiddleware, err := setupAuthMiddleware(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up auth middleware: %w", err)
	}

	bus := events.NewBus()
	fanout := events.NewNotificationFanout(dataset)
	fanout.Register(bus)

	submitCmd := command.NewSubmitForModeration(dataset, dataset, bus)
	createCardCmd := command.NewCreateCard(dataset, submitCmd)
	reviewCardCmd := command.NewReviewCard(dataset, dataset, bus)
	toggleLikeCmd := command.NewToggleCardLike(dataset, dataset, bus)
	trackInteractionCmd := command.NewTrackInteraction(dataset, dataset, dataset, dataset, bus)
	recommendCardsCmd := command.NewRecommendCards(
		dataset, dataset, dataset, dataset,
		DefaultRecommendCardsConfig(),
	)

	// Role lookups sit on the hot path of every moderation request, so they
	// go through a bounded TTL cache.
	roleCache := memory.NewCachedRoleGetter(
		dataset,
		MustGetEnvAsDuration(ctx, "ROLE_CACHE_TTL"),
		roleCacheMaxEntries,
	)

	httpRouter, err := router.MakeRouter(
		cachedRoleDataset{DatasetRepository: dataset, roles: roleCache},
		rateLimits,
		router.Commands{
			CreateCard:       createCardCmd,
			SubmitCard:       submitCmd,
			ReviewCard:       reviewCardCmd,
			ToggleLike:       toggleLikeCmd,
			TrackInteraction: trackInteractionCmd,
			RecommendCards:   recommendCardsCmd,
		},
		MustGetEnvAsString(ctx, "RSS_FEED_BASE_URL"),
		MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_NAME"),
		MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_EMAIL"),
		MustGetEnvAsDuration(ctx, "LATEST_CACHE_MAX_AGE"),
		authMiddleware,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create HTTP router: %w", err)
	}

	components := []Component{
		bus,
		&server.Server{
			TLSDisabled:       MustGetEnvAsBoolean(ctx, "HTTP_TLS_DISABLED"),
			TLSDisabledPort:   MustGetEnvAsInt(ctx, "PORT"),
			AutocertHostnames: MustGetEnvAsStrings(ctx, "HTTP_AUTOCERT_HOSTNAMES"),
			Router:            httpRouter,
		},
	}
	components = append(components, rateLimitComponents...)

	return components, nil
}

// cachedRoleDataset overlays the TTL role cache on top of the repository, so
// the router sees a single DatasetRepository.
type cachedRoleDataset struct {
	datasources.DatasetRepository
	roles datasources.UserRoleGetter
}

func (d cachedRoleDataset) GetUserRole(ctx context.Context, userID string) (domain.UserRole, error) {
	return d.roles.GetUserRole(ctx, userID)
}

func setupDatasetRepository(ctx context.Context) (datasources.DatasetRepository, error) {
	db, err := mysql.Connect(ctx, MustGetEnvAsString(ctx, "MYSQL_URI"))
	if err != nil {
		return nil, fmt.Errorf("connecting to MySQL: %w", err)
	}
	return mysql.New(db), nil
}

func setupRateLimitStore(ctx context.Context) (datasources.RateLimitStore, []Component, error) {
	switch driver := MustGetEnvAsString(ctx, "RATE_LIMIT_DRIVER"); driver {
	case "memory":
		store := memory.NewRateLimitStore(MustGetEnvAsDuration(ctx, "RATE_LIMIT_SWEEP_INTERVAL"))
		return store, []Component{store}, nil
	case "redis":
		client, err := redis.Connect(ctx, MustGetEnvAsString(ctx, "REDIS_ADDR"))
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to Redis: %w", err)
		}
		return redis.NewRateLimitStore(client), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown rate limit driver [%s]", driver)
	}
}

func setupAuthMiddleware(ctx context.Context) (func(http.Handler) http.Handler, error) {
	var validators []router.AuthValidator

	for _, driver := range MustGetEnvAsStrings(ctx, "AUTH_DRIVERS") {
		switch driver {
		case "":
			// Skip empty strings (e.g., from splitting an empty AUTH_DRIVERS)
		case "auth0":
			v, err := router.NewAuth0Validator(
				MustGetEnvAsString(ctx, "AUTH0_DOMAIN"),
				MustGetEnvAsString(ctx, "AUTH0_AUDIENCE"),
			)
			if err != nil {
				return nil, fmt.Errorf("creating Auth0 validator: %w", err)
			}
			validators = append(validators, v)
		default:
			return nil, fmt.Errorf("unknown auth driver [%s]", driver)
		}
	}

	return router.NewAuthMiddleware(validators), nil
}
