// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// defaultConfigPaths are searched in order when CONFIG_PATH is unset.
var defaultConfigPaths = []string{
	"./config.yaml",
	"./config/config.yaml",
	"/etc/locallegends/config.yaml",
}

// envMappings is the explicit allow-list of environment variables. Anything
// not listed here is ignored, so unrelated process environment never leaks
// into the configuration tree.
var envMappings = map[string]string{
	"DATABASE_URL":        "database.path",
	"DUCKDB_MAX_MEMORY":   "database.max_memory",
	"DUCKDB_THREADS":      "database.threads",
	"HTTP_HOST":           "server.host",
	"HTTP_PORT":           "server.port",
	"SHUTDOWN_TIMEOUT":    "server.shutdown_timeout",
	"STATIC_DIR":          "server.static_dir",
	"NEARBY_LIMIT":        "api.nearby_limit",
	"MAX_DISTANCE_METERS": "api.max_distance_meters",
	"MAX_CONTENT_LENGTH":  "api.max_content_length",
	"CORS_ORIGINS":        "security.cors_origins",
	"RATE_LIMIT_REQUESTS": "security.rate_limit_requests",
	"RATE_LIMIT_WINDOW":   "security.rate_limit_window",
	"DISABLE_RATE_LIMIT":  "security.disable_rate_limit",
	"LOG_LEVEL":           "logging.level",
	"LOG_FORMAT":          "logging.format",
	"LOG_CALLER":          "logging.caller",
}

// Load builds the configuration from defaults, an optional YAML file, and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	processSliceFields(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// envTransform maps an environment variable name to its koanf path.
// Returning "" drops the variable.
func envTransform(key string) string {
	return envMappings[key]
}

// processSliceFields splits comma-separated environment values destined for
// slice fields, which the env provider reads as plain strings.
func processSliceFields(k *koanf.Koanf) {
	for _, path := range []string{"security.cors_origins"} {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		_ = k.Set(path, parts)
	}
}

func findConfigFile() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	for _, path := range defaultConfigPaths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
