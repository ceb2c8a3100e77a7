package constants

import "time"

const (
	EmailMaxLength     = 254
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32
	SessionTokenSize   = 32

	TaskTitleMaxLength       = 500
	TaskDescriptionMaxLength = 4000

	DefaultMaxRequestSize = 1 << 20

	BcryptCost = 12

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultHTTPPort               = "8080"
	DefaultRequestTimeout         = 5 * time.Second
	DefaultAccessTokenTTL         = 30 * time.Minute
	DefaultRefreshTokenTTL        = 7 * 24 * time.Hour
	DefaultMaxSessionsPerAccount  = 5
	DefaultSessionCleanupInterval = 1 * time.Hour

	RateLimitCleanupInterval = 10 * time.Minute

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
