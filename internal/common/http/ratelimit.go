package http

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pmorel/tasklane/internal/common/constants"
	"github.com/pmorel/tasklane/internal/observability/metrics"
)

type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	cleanup  *time.Ticker
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		cleanup:  time.NewTicker(constants.RateLimitCleanupInterval),
	}

	go rl.cleanupLimiters()

	return rl
}

func (rl *RateLimiter) cleanupLimiters() {
	for range rl.cleanup.C {
		rl.mu.Lock()
		for key, limiter := range rl.limiters {
			if limiter.Tokens() >= float64(rl.burst) {
				delete(rl.limiters, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		limiter, exists = rl.limiters[key]
		if !exists {
			limiter = rate.NewLimiter(rl.rate, rl.burst)
			rl.limiters[key] = limiter
		}
		rl.mu.Unlock()
	}

	return limiter
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

func (rl *RateLimiter) Middleware(limiterType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(GetClientIP(r)) {
				metrics.RateLimitBlocked.WithLabelValues(r.URL.Path, limiterType).Inc()
				WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// StrictRateLimiter applies tight per-client budgets to credential endpoints
// and a looser general budget everywhere else.
type StrictRateLimiter struct {
	registerLimiter *RateLimiter
	loginLimiter    *RateLimiter
	refreshLimiter  *RateLimiter
	generalLimiter  *RateLimiter
}

func NewStrictRateLimiter() *StrictRateLimiter {
	return &StrictRateLimiter{
		registerLimiter: NewRateLimiter(0.2, 3),
		loginLimiter:    NewRateLimiter(0.5, 5),
		refreshLimiter:  NewRateLimiter(1, 5),
		generalLimiter:  NewRateLimiter(20, 40),
	}
}

func (s *StrictRateLimiter) MiddlewareForPath(path string) func(http.Handler) http.Handler {
	switch path {
	case "/accounts":
		return s.registerLimiter.Middleware("register")
	case "/sessions":
		return s.loginLimiter.Middleware("login")
	case "/sessions/refresh":
		return s.refreshLimiter.Middleware("refresh")
	default:
		return s.generalLimiter.Middleware("general")
	}
}
