// Package config reads process configuration from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the application configuration.
type Config struct {
	Port            string
	DatabasePath    string
	AllowedOrigins  []string
	SeedListings    bool
	ShutdownTimeout time.Duration
	Log             LogConfig
	Fluent          FluentConfig
}

// LogConfig controls the console log handler.
type LogConfig struct {
	Level  slog.Level
	Format string // "pretty", "text" or "json"
}

// FluentConfig controls shipping logs to Fluent Bit.
type FluentConfig struct {
	Enabled   bool
	Host      string
	Port      int
	TagPrefix string
	Level     slog.Level
}

// Load reads the configuration. Values already present in the environment win
// over the .env file; a missing .env file is not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}

	cfg := Config{
		Port:            envOrDefault("PORT", "8080"),
		DatabasePath:    envOrDefault("DATABASE_PATH", "pango.db"),
		AllowedOrigins:  splitList(envOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		ShutdownTimeout: 5 * time.Second,
		Log: LogConfig{
			Format: envOrDefault("LOG_FORMAT", "pretty"),
		},
		Fluent: FluentConfig{
			Host:      envOrDefault("FLUENT_HOST", "127.0.0.1"),
			TagPrefix: envOrDefault("FLUENT_TAG_PREFIX", "pango"),
		},
	}

	var err error
	if cfg.SeedListings, err = envBool("SEED_LISTINGS", false); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	if cfg.Log.Level, err = envLevel("LOG_LEVEL", slog.LevelInfo); err != nil {
		return Config{}, err
	}
	if cfg.Fluent.Enabled, err = envBool("FLUENT_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.Fluent.Port, err = envInt("FLUENT_PORT", 24224); err != nil {
		return Config{}, err
	}
	if cfg.Fluent.Level, err = envLevel("FLUENT_LOG_LEVEL", slog.LevelInfo); err != nil {
		return Config{}, err
	}

	switch cfg.Log.Format {
	case "pretty", "text", "json":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT: unsupported format %q (use pretty, text or json)", cfg.Log.Format)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envLevel(key string, fallback slog.Level) (slog.Level, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return level, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
