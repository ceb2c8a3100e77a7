package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pmorel/tasklane/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
)

type Config struct {
	HTTPPort              string
	DatabaseURL           string
	JWTSecret             string
	RequestTimeout        time.Duration
	AccessTokenTTL        time.Duration
	RefreshTokenTTL       time.Duration
	MaxSessionsPerAccount int
	SessionCleanupEvery   time.Duration
}

// fileConfig mirrors Config for the optional TOML file. Durations are strings
// in time.ParseDuration syntax. Secrets stay in the environment.
type fileConfig struct {
	HTTPPort              string `toml:"http_port"`
	RequestTimeout        string `toml:"request_timeout"`
	AccessTokenTTL        string `toml:"access_token_ttl"`
	RefreshTokenTTL       string `toml:"refresh_token_ttl"`
	MaxSessionsPerAccount int    `toml:"max_sessions_per_account"`
	SessionCleanupEvery   string `toml:"session_cleanup_every"`
}

// Load resolves configuration in three layers: built-in defaults, then the
// TOML file named by TASKLANE_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:              constants.DefaultHTTPPort,
		RequestTimeout:        constants.DefaultRequestTimeout,
		AccessTokenTTL:        constants.DefaultAccessTokenTTL,
		RefreshTokenTTL:       constants.DefaultRefreshTokenTTL,
		MaxSessionsPerAccount: constants.DefaultMaxSessionsPerAccount,
		SessionCleanupEvery:   constants.DefaultSessionCleanupInterval,
	}

	if path := os.Getenv("TASKLANE_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}
	if len(jwtSecret) < constants.JWTSecretMinLength {
		return Config{}, fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(jwtSecret))
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	cfg.JWTSecret = jwtSecret
	cfg.DatabaseURL = databaseURL
	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.RequestTimeout = getDurationEnv("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.AccessTokenTTL = getDurationEnv("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)
	cfg.RefreshTokenTTL = getDurationEnv("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL)
	cfg.MaxSessionsPerAccount = getIntEnv("MAX_SESSIONS_PER_ACCOUNT", cfg.MaxSessionsPerAccount)
	cfg.SessionCleanupEvery = getDurationEnv("SESSION_CLEANUP_EVERY", cfg.SessionCleanupEvery)

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	if fc.HTTPPort != "" {
		cfg.HTTPPort = fc.HTTPPort
	}
	if fc.MaxSessionsPerAccount > 0 {
		cfg.MaxSessionsPerAccount = fc.MaxSessionsPerAccount
	}

	for _, d := range []struct {
		raw string
		dst *time.Duration
	}{
		{fc.RequestTimeout, &cfg.RequestTimeout},
		{fc.AccessTokenTTL, &cfg.AccessTokenTTL},
		{fc.RefreshTokenTTL, &cfg.RefreshTokenTTL},
		{fc.SessionCleanupEvery, &cfg.SessionCleanupEvery},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q in config file %s: %w", d.raw, path, err)
		}
		*d.dst = parsed
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
