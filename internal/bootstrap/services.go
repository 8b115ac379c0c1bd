package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/shopfront-ui-api/config"
	"github.com/target/shopfront-ui-api/internal/adapters/graphql"
	"github.com/target/shopfront-ui-api/internal/data"
	"github.com/target/shopfront-ui-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Customers *service.CustomerContextService
	Bookmarks *service.BookmarkService
	Orders    *service.OrderService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories, adapters and services from shared
// infrastructure. A backend client that fails to construct disables the
// services that depend on it rather than aborting startup; the HTTP layer
// treats a nil service as unavailable.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	var container ServiceContainer

	container.Auth = BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})

	backend, err := graphql.NewClient(graphql.Config{
		URL:     cfg.Backend.GraphQLURL,
		Token:   cfg.Backend.Token,
		Timeout: cfg.Backend.Timeout,
	})
	if err != nil {
		logger.Warn("backend client unavailable, customer and order services disabled", "error", err)
	} else {
		container.Customers = service.NewCustomerContextService(service.CustomerContextServiceOptions{
			Directory: backend,
			Cache:     data.NewRedisCacheRepo(deps.RedisClient),
			TitleTTL:  cfg.Cache.TitleTTL,
			Logger:    logger,
		})
		container.Orders = service.NewOrderService(backend)
	}

	if deps.DB != nil {
		container.Bookmarks = service.NewBookmarkService(data.NewBookmarkRepo(deps.DB))
	}

	return container
}
