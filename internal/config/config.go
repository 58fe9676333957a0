// Package config handles application configuration loading from environment
// variables and an optional .env file. It provides a centralized Config
// struct used across the application.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in the APP_ENV config field.
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Store driver names accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Development defaults that must not reach production.
const (
	defaultDBPassword = "changeme"
	defaultAuthKey    = "shelfkeeper-dev-session-auth-key"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `conf:"default:0.0.0.0,env:APP_HOST"`
	Port     string `conf:"default:8080,env:APP_PORT"`
	Env      string `conf:"default:development,enum:development|testing|production,env:APP_ENV"`
	LogLevel string `conf:"default:info,env:LOG_LEVEL"`

	// Backend for categories and items.
	StoreDriver string `conf:"default:postgres,enum:postgres|mongo|memory,env:STORE_DRIVER"`

	// PostgreSQL connection
	DBHost     string `conf:"default:localhost,env:POSTGRES_HOST"`
	DBPort     string `conf:"default:5432,env:POSTGRES_PORT"`
	DBUser     string `conf:"default:shelfkeeper,env:POSTGRES_USER"`
	DBPassword string `conf:"default:changeme,env:POSTGRES_PASSWORD,noprint"`
	DBName     string `conf:"default:shelfkeeper,env:POSTGRES_DB"`

	// MongoDB connection
	MongoURI      string `conf:"default:mongodb://localhost:27017,env:MONGO_URI,noprint"`
	MongoDatabase string `conf:"default:shelfkeeper,env:MONGO_DB"`

	// Valkey (Redis-compatible cache). An empty host disables it.
	ValkeyHost     string `conf:"env:VALKEY_HOST"`
	ValkeyPort     string `conf:"default:6379,env:VALKEY_PORT"`
	ValkeyPassword string `conf:"env:VALKEY_PASSWORD,noprint"`

	// Flash session keys: 32 or 64 bytes for HMAC, 16, 24 or 32 for AES.
	SessionAuthKey       string `conf:"default:shelfkeeper-dev-session-auth-key,env:SESSION_AUTH_KEY,noprint"`
	SessionEncryptionKey string `conf:"default:shelfkeeper-dev-encryption-key!!,env:SESSION_ENCRYPTION_KEY,noprint"`

	// Requests per minute per IP for form submissions.
	RateLimitPerMinute int `conf:"default:60,env:RATE_LIMIT_PER_MINUTE"`

	// Observability. Empty values disable the integration.
	ServiceName    string `conf:"default:shelfkeeper,env:SERVICE_NAME"`
	ServiceVersion string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string `conf:"env:OTEL_ENDPOINT"`
	SentryDSN      string `conf:"env:SENTRY_DSN,noprint"`
}

// Load reads configuration from the environment, applying defaults for
// development where appropriate. Returns an error if critical values are
// unsafe in production mode.
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()

	if _, err := conf.Parse("", &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil, err
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that conf tags cannot express. Production also
// rejects the development defaults.
func (c *Config) Validate() error {
	var errs []string

	switch len(c.SessionEncryptionKey) {
	case 0, 16, 24, 32:
	default:
		errs = append(errs, fmt.Sprintf(
			"SESSION_ENCRYPTION_KEY must be 16, 24 or 32 bytes (got %d)", len(c.SessionEncryptionKey)))
	}
	if c.RateLimitPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_PER_MINUTE must be positive")
	}

	if c.Env == EnvProduction {
		if c.StoreDriver == DriverPostgres && c.DBPassword == defaultDBPassword {
			errs = append(errs, "POSTGRES_PASSWORD must be set in production")
		}
		if c.StoreDriver == DriverMemory {
			errs = append(errs, "STORE_DRIVER=memory is not allowed in production")
		}
		if c.SessionAuthKey == defaultAuthKey || len(c.SessionAuthKey) < 32 {
			errs = append(errs, "SESSION_AUTH_KEY must be a random key of at least 32 bytes in production")
		}
		if c.LogLevel == "debug" {
			errs = append(errs, "LOG_LEVEL must not be 'debug' in production")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == EnvDevelopment
}

// ValkeyEnabled reports whether a Valkey host was configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}
