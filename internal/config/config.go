package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

// Config keeps runtime settings for the server.
type Config struct {
	DatabaseURL string
	ListenAddr  string
	JWTSecret   string
	TokenTTL    time.Duration
	GinMode     string

	// CookieSecure restricts the MVC session cookie to HTTPS.
	CookieSecure bool

	LogLevel  logrus.Level
	LogFormat string

	API SurfaceConfig
	Web SurfaceConfig
}

// SurfaceConfig holds the behavior switches of one presentation layer.
type SurfaceConfig struct {
	Search service.SearchMode
	Owner  service.OwnerPolicy
}

// Policy returns the service policy for this surface.
func (s SurfaceConfig) Policy() service.Policy {
	return service.Policy{Search: s.Search, Owner: s.Owner}
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		DatabaseURL: get("DATABASE_URL", "taskboard.db"),
		ListenAddr:  get("LISTEN_ADDR", ":8080"),
		JWTSecret:   get("JWT_SECRET", ""),
		GinMode:     get("GIN_MODE", "release"),
		LogFormat:   strings.ToLower(get("LOG_FORMAT", "text")),
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return cfg, fmt.Errorf("invalid TOKEN_TTL %q", getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	if raw := getenv("COOKIE_SECURE"); strings.TrimSpace(raw) != "" {
		secure, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return cfg, fmt.Errorf("invalid COOKIE_SECURE %q", raw)
		}
		cfg.CookieSecure = secure
	}

	level, err := logrus.ParseLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return cfg, fmt.Errorf("invalid LOG_FORMAT %q, expected text or json", cfg.LogFormat)
	}

	searchDefault := get("SEARCH_MODE", "")
	if cfg.API.Search, err = service.ParseSearchMode(get("API_SEARCH_MODE", orDefault(searchDefault, "sensitive"))); err != nil {
		return cfg, fmt.Errorf("API_SEARCH_MODE: %w", err)
	}
	if cfg.Web.Search, err = service.ParseSearchMode(get("WEB_SEARCH_MODE", orDefault(searchDefault, "insensitive"))); err != nil {
		return cfg, fmt.Errorf("WEB_SEARCH_MODE: %w", err)
	}
	if cfg.API.Owner, err = service.ParseOwnerPolicy(get("API_OWNER_CHECK", "none")); err != nil {
		return cfg, fmt.Errorf("API_OWNER_CHECK: %w", err)
	}
	if cfg.Web.Owner, err = service.ParseOwnerPolicy(get("WEB_OWNER_CHECK", "delete")); err != nil {
		return cfg, fmt.Errorf("WEB_OWNER_CHECK: %w", err)
	}

	return cfg, nil
}

// RequireServer reports settings that only the HTTP server needs.
func (c Config) RequireServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// NewLogger builds the process logger from the config.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
