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

	httpapi "github.com/aussiebroadwan/bookstore/internal/bookstore/http"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store/drivers/postgres"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookstore/pkg/cryptox"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
	"github.com/aussiebroadwan/bookstore/pkg/totpx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application owns the bookstore service and all of its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *jwtx.Manager
	hasher *cryptox.PasswordHasher

	accountService   *service.AccountService
	sessionService   *service.SessionService
	bootstrapService *service.BootstrapService
	catalogService   *service.CatalogService
	orderService     *service.OrderService

	server *http.Server
	router *httpapi.Router
}

// New builds an Application: logger, store and migrations, secrets, services
// and the HTTP server, in that order.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "bookstore",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initSecrets(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler is the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("bookstore starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"db_driver", app.cfg.Database.Driver,
		"bootstrap_enabled", app.bootstrapService.Enabled(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.db.Close()
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

// Shutdown drains in-flight requests and closes the store.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down bookstore...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("bookstore stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations.
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.Database.Driver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, app.cfg.Database.DSN)
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.Database.File)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.Database.Driver)
	return nil
}

// initSecrets loads the password pepper and the JWT signing key.
func (app *Application) initSecrets() error {
	pepper, err := cryptox.LoadOrGeneratePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	secret := app.cfg.JWT.Secret
	if secret == "" {
		// Validate only lets this through in dev.
		secret, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		app.logger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	app.tokens, err = jwtx.NewManager(jwtx.Options{
		Secret: []byte(secret),
		Issuer: app.cfg.JWT.Issuer,
		Leeway: 5 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}
	return nil
}

func (app *Application) initServices() {
	app.accountService = &service.AccountService{
		Store:      app.db,
		Hasher:     app.hasher,
		Tokens:     app.tokens,
		SessionTTL: app.cfg.JWT.ExpiresIn,
	}
	app.sessionService = &service.SessionService{
		Store:      app.db,
		Hasher:     app.hasher,
		Tokens:     app.tokens,
		OTP:        totpx.NewEngine(app.cfg.TOTPIssuer),
		SessionTTL: app.cfg.JWT.ExpiresIn,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Hasher: app.hasher,
		Token:  app.cfg.BootstrapToken,
	}
	app.catalogService = &service.CatalogService{Store: app.db}
	app.orderService = &service.OrderService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.tokens,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.Errors = httpapi.ErrorWriter{ExposeDetail: app.cfg.IsDev()}
	router.AccountService = app.accountService
	router.SessionService = app.sessionService
	router.BootstrapService = app.bootstrapService
	router.CatalogService = app.catalogService
	router.OrderService = app.orderService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
