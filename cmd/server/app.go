package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	apiMiddleware "github.com/tracklet/tracklet-api/internal/api/middleware"
	"github.com/tracklet/tracklet-api/internal/config"
	"github.com/tracklet/tracklet-api/internal/platform/postgres"
	"github.com/tracklet/tracklet-api/internal/service"
	"github.com/tracklet/tracklet-api/internal/service/auth"
	"github.com/tracklet/tracklet-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	accountService   *service.AccountService
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	metricsRegistry *prometheus.Registry
	metrics         *apiMiddleware.Metrics
	rateLimiter     *apiMiddleware.RateLimiter
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logger, and the database connection must be
// established before calling it.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Int("refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	app.accountService = service.NewAccountService(db, app.userStore, app.taskStore, logger)

	app.metricsRegistry = prometheus.NewRegistry()
	app.metrics = apiMiddleware.NewMetrics(app.metricsRegistry)

	app.rateLimiter = apiMiddleware.NewRateLimiter(
		cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
