package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/slma/membership/internal/membership/http"
	"github.com/slma/membership/internal/membership/mail"
	"github.com/slma/membership/internal/membership/service"
	"github.com/slma/membership/internal/membership/store"
	"github.com/slma/membership/internal/membership/store/drivers/sqlite"
	"github.com/slma/membership/pkg/cryptox"
	"github.com/slma/membership/pkg/jwtx"
	"github.com/slma/membership/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the membership service with its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.HS256
	mailer mail.Mailer

	identityService     *service.IdentityService
	verificationService *service.VerificationService
	resetService        *service.PasswordResetService
	profileService      *service.ProfileService
	eventService        *service.EventService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "membership-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSigner(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initMailer()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("membership service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down membership service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("membership service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
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

// initSigner builds the HS256 session token signer. The signing secret is
// loaded once at startup; without one configured, every restart
// invalidates outstanding sessions.
func (app *Application) initSigner() error {
	secret := app.cfg.JWTSecret
	if secret == "" {
		if app.cfg.Env == "prod" {
			return fmt.Errorf("MEMBERSHIP_JWT_SECRET must be set in prod")
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to generate fallback secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
		app.logger.Warn("no MEMBERSHIP_JWT_SECRET set, using a random secret; sessions will not survive restarts")
	}

	signer, err := jwtx.NewHS256([]byte(secret), app.cfg.Issuer, app.cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer
	return nil
}

// initMailer picks SMTP when a relay is configured, log-only otherwise.
func (app *Application) initMailer() {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("no SMTP_HOST set, emails will be logged instead of sent")
		app.mailer = mail.NewLogMailer(app.logger)
		return
	}

	app.mailer = mail.NewSMTPMailer(mail.SMTPConfig{
		Host:        app.cfg.SMTPHost,
		Port:        app.cfg.SMTPPort,
		Username:    app.cfg.SMTPUsername,
		Password:    app.cfg.SMTPPassword,
		From:        app.cfg.MailFrom,
		FrontendURL: app.cfg.FrontendURL,
	})
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.identityService = &service.IdentityService{
		Store:  app.db,
		Signer: app.signer,
		Mailer: app.mailer,
	}
	app.verificationService = &service.VerificationService{
		Store:  app.db,
		Mailer: app.mailer,
	}
	app.resetService = &service.PasswordResetService{
		Store:  app.db,
		Mailer: app.mailer,
	}
	app.profileService = &service.ProfileService{Store: app.db}
	app.eventService = &service.EventService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		app.signer,
		BuildVersion,
		app.cfg.Env,
		app.db,
		app.logger,
	)

	router.IdentityService = app.identityService
	router.VerificationService = app.verificationService
	router.ResetService = app.resetService
	router.ProfileService = app.profileService
	router.EventService = app.eventService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
