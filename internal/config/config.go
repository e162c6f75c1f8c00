// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver string `env:"CARBON_DB_DRIVER" envDefault:"sqlite"`
	DBPath   string `env:"CARBON_DB_PATH" envDefault:"./data/carbontrack.db"`
	DBDSN    string `env:"CARBON_DB_DSN"` // MySQL DSN, required when driver is mysql

	ServerHost string `env:"CARBON_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"CARBON_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"CARBON_ENV" envDefault:"development"`
	LogLevel   string `env:"CARBON_LOG_LEVEL" envDefault:"info"`

	// Identity provider used to validate bearer tokens. When the URL is
	// empty, AuthSecret enables the static shared-secret verifier instead.
	AuthVerifyURL string `env:"CARBON_AUTH_VERIFY_URL"`
	AuthSecret    string `env:"CARBON_AUTH_SECRET"`

	// Per-caller rate limiting
	RateLimitRPS   float64 `env:"CARBON_RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"CARBON_RATE_LIMIT_BURST" envDefault:"10"`

	// Reference-data cache
	RedisURL     string `env:"CARBON_REDIS_URL"` // Optional Redis URL for distributed caching
	CachePrefix  string `env:"CARBON_CACHE_PREFIX" envDefault:"carbontrack:"`
	CacheTTL     int    `env:"CARBON_CACHE_TTL" envDefault:"3600"` // Seconds
	CacheMaxSize int    `env:"CARBON_CACHE_MAX_SIZE" envDefault:"10000"`

	// Third-party food CO2 API
	FoodAPIURL string `env:"CARBON_FOOD_API_URL" envDefault:"https://world.openfoodfacts.org"`

	// Push notifications
	ExpoPushURL       string `env:"CARBON_EXPO_PUSH_URL" envDefault:"https://exp.host/--/api/v2/push/send"`
	InactivityDays    int    `env:"CARBON_INACTIVITY_DAYS" envDefault:"7"`
	NotifyCronSpec    string `env:"CARBON_NOTIFY_CRON" envDefault:"0 18 * * *"`
	NotifyBatchSize   int    `env:"CARBON_NOTIFY_BATCH_SIZE" envDefault:"100"`
	NotificationTitle string `env:"CARBON_NOTIFY_TITLE" envDefault:"Carbon Track"`
	NotificationBody  string `env:"CARBON_NOTIFY_BODY" envDefault:"Cela fait un moment ! Pensez à enregistrer vos activités."`

	// Seeding configuration
	DoSeed bool `env:"CARBON_DO_SEED" envDefault:"true"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("CARBON_DB_PATH is required with the sqlite driver")
		}
	case DriverMySQL:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("CARBON_DB_DSN is required with the mysql driver")
		}
	default:
		return nil, fmt.Errorf("unknown CARBON_DB_DRIVER %q (want sqlite or mysql)", cfg.DBDriver)
	}

	if cfg.AuthVerifyURL == "" && cfg.AuthSecret == "" {
		return nil, fmt.Errorf("either CARBON_AUTH_VERIFY_URL or CARBON_AUTH_SECRET must be set")
	}

	if cfg.NotifyBatchSize <= 0 || cfg.NotifyBatchSize > 100 {
		// Expo rejects batches above 100 messages.
		return nil, fmt.Errorf("CARBON_NOTIFY_BATCH_SIZE must be between 1 and 100, got %d", cfg.NotifyBatchSize)
	}

	return cfg, nil
}
