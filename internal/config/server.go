package config

import (
	"errors"
	"time"

	"vending/internal/repositories"
	"vending/internal/repositories/cache"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// ErrMissingJWTSecret is returned by Load in production when JWT_SECRET is unset.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

const developmentJWTSecret = "dev-only-insecure-secret"

// Config is the resolved server configuration.
type Config struct {
	Port        string
	Env         string
	ServiceName string
	StoreDriver string

	DB    repositories.DBConfig
	Redis cache.RedisConfig

	CacheTTL time.Duration

	JWTSecret        string
	JWTTokenValidity time.Duration

	LogLevel string
	LogFile  string

	OTelEnabled      bool
	OTelSamplerRatio float64

	CORSAllowOrigins string
	LoginRateLimit   int
}

// CacheEnabled reports whether a Redis host was configured.
func (c Config) CacheEnabled() bool {
	return c.Redis.Host != ""
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:        GetEnv("PORT", "3000"),
		Env:         GetEnv("ENV", "development"),
		ServiceName: GetEnv("SERVICE_NAME", "vending"),
		StoreDriver: GetEnv("STORE_DRIVER", StoreDriverPostgres),
		DB: repositories.DBConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "vending"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: cache.RedisConfig{
			Host:     GetEnv("REDIS_HOST", ""),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		CacheTTL:         GetDurationEnv("CACHE_TTL", 5*time.Minute),
		JWTSecret:        GetEnv("JWT_SECRET", ""),
		JWTTokenValidity: GetDurationEnv("JWT_TOKEN_VALIDITY", time.Hour),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		LogFile:          GetEnv("LOG_FILE", ""),
		OTelEnabled:      GetBoolEnv("OTEL_ENABLED", false),
		OTelSamplerRatio: GetFloatEnv("OTEL_SAMPLER_RATIO", 1.0),
		CORSAllowOrigins: GetEnv("CORS_ALLOW_ORIGINS", "*"),
		LoginRateLimit:   GetIntEnv("LOGIN_RATE_LIMIT", 5),
	}

	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		return Config{}, errors.New("STORE_DRIVER must be postgres or memory")
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return Config{}, ErrMissingJWTSecret
		}
		cfg.JWTSecret = developmentJWTSecret
	}
	return cfg, nil
}
