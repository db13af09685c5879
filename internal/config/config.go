// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

// Package config loads and validates application configuration.
//
// Configuration is layered: struct defaults, then an optional YAML file,
// then environment variables. The only required value is DATABASE_URL, the
// path of the DuckDB database file.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration tree.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig controls the DuckDB connection.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:" for an ephemeral store.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// StaticDir is the directory served for non-API paths.
	StaticDir string `koanf:"static_dir"`
}

// APIConfig controls story endpoint behavior.
type APIConfig struct {
	// NearbyLimit caps the number of stories a proximity query returns.
	NearbyLimit int `koanf:"nearby_limit"`
	// MaxDistanceMeters bounds the proximity search radius.
	MaxDistanceMeters float64 `koanf:"max_distance_meters"`
	// MaxContentLength caps story content in characters.
	MaxContentLength int `koanf:"max_content_length"`
}

// SecurityConfig controls CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins      []string      `koanf:"cors_origins"`
	RateLimitReqs    int           `koanf:"rate_limit_requests"`
	RateLimitWindow  time.Duration `koanf:"rate_limit_window"`
	DisableRateLimit bool          `koanf:"disable_rate_limit"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "",
			MaxMemory: "512MB",
			Threads:   2,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			StaticDir:       "./web/public",
		},
		API: APIConfig{
			NearbyLimit:       10,
			MaxDistanceMeters: 1_000_000,
			MaxContentLength:  5000,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the loaded configuration for values the server cannot
// start with.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required (set DATABASE_URL)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.API.NearbyLimit < 1 {
		return fmt.Errorf("nearby limit must be positive, got %d", c.API.NearbyLimit)
	}
	if c.API.MaxDistanceMeters <= 0 {
		return fmt.Errorf("max distance must be positive, got %f", c.API.MaxDistanceMeters)
	}
	if c.API.MaxContentLength < 1 {
		return fmt.Errorf("max content length must be positive, got %d", c.API.MaxContentLength)
	}
	if !c.Security.DisableRateLimit {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("rate limit requests must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("rate limit window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
