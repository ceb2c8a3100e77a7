package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	accountrepo "github.com/pmorel/tasklane/internal/account/repository"
	authhttp "github.com/pmorel/tasklane/internal/auth/http"
	authservice "github.com/pmorel/tasklane/internal/auth/service"
	"github.com/pmorel/tasklane/internal/common/clock"
	"github.com/pmorel/tasklane/internal/common/config"
	"github.com/pmorel/tasklane/internal/common/constants"
	commoncrypto "github.com/pmorel/tasklane/internal/common/crypto"
	"github.com/pmorel/tasklane/internal/common/db"
	commonhttp "github.com/pmorel/tasklane/internal/common/http"
	"github.com/pmorel/tasklane/internal/common/httpmetrics"
	"github.com/pmorel/tasklane/internal/common/jwtverify"
	"github.com/pmorel/tasklane/internal/common/logger"
	srv "github.com/pmorel/tasklane/internal/common/server"
	sessioncleanup "github.com/pmorel/tasklane/internal/session/cleanup"
	sessionrepo "github.com/pmorel/tasklane/internal/session/repository"
	taskhttp "github.com/pmorel/tasklane/internal/task/http"
	taskrepo "github.com/pmorel/tasklane/internal/task/repository"
	taskservice "github.com/pmorel/tasklane/internal/task/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()
	db.StartPoolMetrics(pool, constants.DBPoolMetricsInterval)

	accountRepo := accountrepo.NewPgRepository(pool)
	sessionRepo := sessionrepo.NewPgRepository(pool)
	taskRepo := taskrepo.NewPgRepository(pool)

	clk := clock.NewRealClock()

	authService := authservice.NewAuthService(
		authservice.AuthServiceDeps{
			Accounts:    accountRepo,
			Sessions:    sessionRepo,
			Hasher:      commoncrypto.NewBcryptHasher(),
			IDGenerator: commoncrypto.NewUUIDGenerator(),
			Clock:       clk,
			Log:         log,
		},
		authservice.AuthServiceConfig{
			JWTSecret:       cfg.JWTSecret,
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			MaxSessions:     cfg.MaxSessionsPerAccount,
		},
	)

	taskService := taskservice.NewTaskService(taskservice.TaskServiceDeps{
		Tasks:    taskRepo,
		Accounts: accountRepo,
		Clock:    clk,
		Log:      log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sessioncleanup.StartSessionCleanup(ctx, sessionRepo, cfg.SessionCleanupEvery, log)

	authHandler := authhttp.NewHandler(authService, cfg, log)
	taskHandler := taskhttp.NewHandler(taskService, cfg, log)

	authMetrics := httpmetrics.New("auth")
	taskMetrics := httpmetrics.New("tasks")
	requireAuth := jwtverify.Middleware(cfg.JWTSecret, log)

	mux := http.NewServeMux()
	mux.Handle("/accounts", authMetrics.Wrap(authHandler))
	mux.Handle("/sessions", authMetrics.Wrap(authHandler))
	mux.Handle("/sessions/", authMetrics.Wrap(authHandler))
	mux.Handle("/tasks", taskMetrics.Wrap(requireAuth(taskHandler)))
	mux.Handle("/tasks/", taskMetrics.Wrap(requireAuth(taskHandler)))
	mux.Handle("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewStrictRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.MiddlewareForPath(path)(next).ServeHTTP(w, r)
		})
	}

	finalHandler := rateLimitMiddleware(baseHandler)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("api service: stopping background goroutines")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "api", shutdownHooks)
}
