package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/oneclicklabs/oneclick-access/internal/access/http"
	"github.com/oneclicklabs/oneclick-access/internal/access/metrics"
	"github.com/oneclicklabs/oneclick-access/internal/access/notify"
	"github.com/oneclicklabs/oneclick-access/internal/access/service"
	"github.com/oneclicklabs/oneclick-access/internal/access/store"
	"github.com/oneclicklabs/oneclick-access/internal/access/store/drivers/sqlite"
	"github.com/oneclicklabs/oneclick-access/pkg/httpx"
	"github.com/oneclicklabs/oneclick-access/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// ErrNoSecret is returned when neither the raw API secret nor its hash is
// configured; the Entitlement API cannot run wide open.
var ErrNoSecret = errors.New("ACCESS_API_SECRET or ACCESS_API_SECRET_HASH must be set")

// Application encapsulates the access service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	metrics    *metrics.Metrics
	dispatcher *notify.Dispatcher

	// Services
	entitlementService  *service.EntitlementService
	approvalService     *service.ApprovalService
	issuanceService     *service.IssuanceService
	registrationService *service.RegistrationService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "access-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.APISecret == "" && cfg.APISecretHash == "" {
		return nil, ErrNoSecret
	}
	if cfg.AdminID == "" {
		app.logger.Warn("ACCESS_ADMIN_ID is not set; every decision will be refused")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.metrics = metrics.New()
	app.dispatcher = notify.NewDispatcher(
		&notify.LogNotifier{Logger: app.logger},
		app.logger,
		cfg.NotifyBuffer,
	)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Entitlements exposes the entitlement service for a conversational
// front-end mounted in the same process.
func (app *Application) Entitlements() *service.EntitlementService {
	return app.entitlementService
}

// Approval exposes the moderation service for a conversational front-end.
func (app *Application) Approval() *service.ApprovalService {
	return app.approvalService
}

// Issuance exposes the slug issuance service for a conversational front-end.
func (app *Application) Issuance() *service.IssuanceService {
	return app.issuanceService
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.dispatcher.Start()
	app.housekeepingService.Start()

	app.logger.Info("access service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down access service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop background workers after the server so no request can enqueue
	// into a stopped dispatcher.
	app.housekeepingService.Stop()
	app.dispatcher.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("access service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	window := app.cfg.Window()

	app.entitlementService = &service.EntitlementService{
		Store:  app.db,
		Window: window,
	}
	app.approvalService = &service.ApprovalService{
		Store:      app.db,
		AdminID:    app.cfg.AdminID,
		Window:     window,
		Dispatcher: app.dispatcher,
		Metrics:    app.metrics,
	}
	app.issuanceService = &service.IssuanceService{
		Store:      app.db,
		Dispatcher: app.dispatcher,
		Metrics:    app.metrics,
	}
	app.registrationService = &service.RegistrationService{
		Store:      app.db,
		Window:     window,
		Dispatcher: app.dispatcher,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.ProofRetention,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.secretVerifier(),
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.Metrics = app.metrics
	router.RegistrationService = app.registrationService
	router.IssuanceService = app.issuanceService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// secretVerifier prefers the hashed form so the raw secret can stay out of
// the environment entirely.
func (app *Application) secretVerifier() httpx.SecretVerifier {
	if app.cfg.APISecretHash != "" {
		return httpx.HashedSecret(app.cfg.APISecretHash)
	}
	return httpx.StaticSecret(app.cfg.APISecret)
}
