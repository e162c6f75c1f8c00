// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"

	"github.com/talacata-contact/carbon-track/internal/model"
)

// Config holds configuration for the cache manager.
type Config struct {
	// Type is the cache backend type: "memory" or "redis"
	Type string

	// RedisURL is the Redis connection URL (only for redis type)
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis type)
	Prefix string

	// DefaultTTL is the default TTL for cache entries
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited)
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup
	CleanupInterval time.Duration

	// FallbackToMemory falls back to a memory cache when Redis is unreachable
	FallbackToMemory bool
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		Type:             "memory",
		DefaultTTL:       time.Hour,
		MaxSize:          10000,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
}

// Info describes the backend the manager ended up with.
type Info struct {
	Backend    string
	IsFallback bool
}

// Manager bundles typed caches for each reference table in front of one
// backend.
type Manager struct {
	backend Cache
	info    Info

	Chauffages  *TypedCache[[]model.Chauffage]
	Transports  *TypedCache[[]model.TransportCategorie]
	Moyennes    *TypedCache[[]model.MoyenneFr]
	Suggestions *TypedCache[[]model.Suggestion]
}

// Cache keys for the reference tables.
const (
	KeyChauffages  = "ref:chauffages"
	KeyTransports  = "ref:transport_categories"
	KeyMoyennes    = "ref:moyennes_fr"
	KeySuggestions = "ref:suggestions"
)

// NewManager creates a manager with the backend selected by cfg. When Redis
// is requested but unreachable and FallbackToMemory is set, a memory backend
// is used instead.
func NewManager(cfg Config) *Manager {
	var backend Cache
	info := Info{Backend: "memory"}

	if cfg.Type == "redis" && cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		redisCache, err := NewRedisCache(opts)
		if err == nil {
			backend = redisCache
			info.Backend = "redis"
		} else if cfg.FallbackToMemory {
			slog.Warn("redis cache unavailable, falling back to memory", "error", err)
			info.IsFallback = true
		} else {
			slog.Error("redis cache unavailable", "error", err)
			info.IsFallback = true
		}
	}

	if backend == nil {
		backend = NewMemoryCache(MemoryCacheOptions{
			DefaultTTL:      cfg.DefaultTTL,
			MaxSize:         cfg.MaxSize,
			CleanupInterval: cfg.CleanupInterval,
		})
	}

	return &Manager{
		backend:     backend,
		info:        info,
		Chauffages:  NewTypedCache[[]model.Chauffage](backend, cfg.DefaultTTL),
		Transports:  NewTypedCache[[]model.TransportCategorie](backend, cfg.DefaultTTL),
		Moyennes:    NewTypedCache[[]model.MoyenneFr](backend, cfg.DefaultTTL),
		Suggestions: NewTypedCache[[]model.Suggestion](backend, cfg.DefaultTTL),
	}
}

// Info returns backend details for startup logging.
func (m *Manager) Info() Info {
	return m.info
}

// IsRedis reports whether the manager runs on the Redis backend.
func (m *Manager) IsRedis() bool {
	return m.info.Backend == "redis"
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
