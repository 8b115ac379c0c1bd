package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"shopfront"`
	Password string `env:"PASSWORD" envDefault:"shopfront"`
	Name     string `env:"NAME"     envDefault:"shopfront"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// CacheConfig contains cache configuration (Redis-based).
type CacheConfig struct {
	// ContextTTL is the client cache lifetime advertised for the auth
	// context snapshot endpoint. Kept short: the snapshot is a display
	// convenience, never the basis of an authorization decision.
	ContextTTL time.Duration `env:"CACHE_CONTEXT_TTL" envDefault:"10s"`

	// TitleTTL is the TTL for cached customer titles from the backend.
	TitleTTL time.Duration `env:"CACHE_TITLE_TTL" envDefault:"15m"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.ContextTTL <= 0 {
		c.ContextTTL = 10 * time.Second
	}
	// Cap the snapshot lifetime at a minute; a stale snapshot only delays
	// UI feedback but it should never linger.
	if c.ContextTTL > time.Minute {
		c.ContextTTL = time.Minute
	}
	if c.TitleTTL <= 0 {
		c.TitleTTL = 15 * time.Minute
	}
}
