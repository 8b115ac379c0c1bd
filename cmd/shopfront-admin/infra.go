package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/shopfront-ui-api/config"
	"github.com/target/shopfront-ui-api/internal/bootstrap"
)

type connectInfraOptions struct {
	Logger    *slog.Logger
	Config    *config.AppConfig
	WantDB    bool
	WantRedis bool
}

// connectInfraWithOptions wires up infrastructure dependencies based on what
// the command needs.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func connectInfraWithOptions(opts *connectInfraOptions) (*sql.DB, redis.UniversalClient, error) {
	var (
		db          *sql.DB
		redisClient redis.UniversalClient
		err         error
	)

	if opts.WantDB {
		db, err = bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: opts.Config.Postgres, Logger: opts.Logger})
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
	}

	if opts.WantRedis {
		redisClient, err = bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: opts.Config.Redis, Logger: opts.Logger})
		if err != nil {
			if db != nil {
				if closeErr := db.Close(); closeErr != nil {
					opts.Logger.Warn("db close failed", "error", closeErr)
				}
			}
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	return db, redisClient, nil
}

func closeInfra(logger *slog.Logger, db *sql.DB, redisClient redis.UniversalClient) {
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Warn("db close failed", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close failed", "error", err)
		}
	}
}
