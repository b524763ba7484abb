package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/junkcaptain/crm/backend/internal/imagestore"
	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/notify"
	"github.com/junkcaptain/crm/backend/internal/ratelimit"
	"github.com/junkcaptain/crm/backend/internal/repositories"
	"github.com/junkcaptain/crm/backend/internal/router"
	"github.com/junkcaptain/crm/backend/internal/services"
	"github.com/junkcaptain/crm/backend/pkg/config"
	"github.com/junkcaptain/crm/backend/pkg/firebase"
	"github.com/junkcaptain/crm/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := config.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("initialize databases: %w", err)
	}
	defer db.CloseDB()

	if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	leads, customers, notifications, err := recordStores(ctx, db)
	if err != nil {
		return err
	}

	// Firebase is optional: it backs Firebase login and the firebase image store.
	var firebaseApp *firebase.App
	if cfg.Firebase.CredentialsPath != "" {
		firebaseApp, err = firebase.InitFirebase(ctx, cfg.Firebase.CredentialsPath, cfg.Firebase.StorageBucket)
		if err != nil {
			return fmt.Errorf("initialize firebase: %w", err)
		}
		log.Info("firebase initialized")
	}

	images, err := imageStore(cfg, firebaseApp)
	if err != nil {
		return err
	}

	crm := services.NewCustomerService(log, leads, customers, notifications)
	quotes := services.NewQuoteService(log, crm, images, emitters(cfg, log))

	deps := router.Dependencies{
		Log:            log,
		Customers:      crm,
		Quotes:         quotes,
		Notifications:  notifications,
		Users:          repositories.NewPostgresUserRepository(db.Postgres),
		JWTSecret:      cfg.Auth.JWTSecret,
		TokenTTL:       cfg.Auth.TokenTTL,
		QuoteBodyLimit: cfg.Server.QuoteBodyLimit,
	}
	if firebaseApp != nil {
		// Assigned only when set so the interface never holds a nil *auth.Client.
		deps.FirebaseAuth = firebaseApp.AuthClient
	}
	if cfg.RateLimit.RedisURL != "" {
		limiter, err := ratelimit.NewLimiter(cfg.RateLimit.RedisURL, "quote:", cfg.RateLimit.Quotes, cfg.RateLimit.Window)
		if err != nil {
			return fmt.Errorf("initialize rate limiter: %w", err)
		}
		defer limiter.Close()
		deps.QuoteLimiter = limiter
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = router.ErrorHandler(log)
	if e.IPExtractor, err = router.IPExtractor(cfg.Server.TrustedProxies); err != nil {
		return err
	}

	config.SetupMiddleware(e, log, cfg.Server.CORSOrigins)
	router.SetupRoutes(e, deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("port", cfg.Server.Port), slog.String("env", cfg.Server.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// recordStores returns the Mongo repositories, or the in-memory store when
// no Mongo connection is configured.
func recordStores(ctx context.Context, db *config.DB) (repositories.LeadRepository, repositories.CustomerRepository, repositories.NotificationRepository, error) {
	mdb := db.MongoDatabase()
	if mdb == nil {
		mem := repositories.NewMemoryStore()
		return mem.Leads(), mem.Customers(), mem.Notifications(), nil
	}
	if err := repositories.EnsureIndexes(ctx, mdb); err != nil {
		return nil, nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return repositories.NewMongoLeadRepository(mdb),
		repositories.NewMongoCustomerRepository(mdb),
		repositories.NewMongoNotificationRepository(mdb),
		nil
}

func imageStore(cfg *config.Config, app *firebase.App) (imagestore.Store, error) {
	switch cfg.Images.Store {
	case "firebase":
		if app == nil {
			return nil, errors.New("firebase image store needs FIREBASE_CREDENTIALS_PATH")
		}
		return imagestore.NewFirebaseStore(app.Storage, cfg.Firebase.StorageBucket, cfg.Images.Folder)
	case "minio":
		return imagestore.NewMinioStore(imagestore.MinioConfig{
			Endpoint:  cfg.Images.MinioEndpoint,
			AccessKey: cfg.Images.MinioAccessKey,
			SecretKey: cfg.Images.MinioSecretKey,
			Bucket:    cfg.Images.MinioBucket,
			UseSSL:    cfg.Images.MinioUseSSL,
			PublicURL: cfg.Images.MinioPublicURL,
			Folder:    cfg.Images.Folder,
		})
	}
	return nil, nil
}

func emitters(cfg *config.Config, log *slog.Logger) notify.Emitter {
	var out notify.Multi
	if cfg.MailEnabled() {
		out = append(out, notify.NewEmailEmitter(cfg.Mail.ResendAPIKey, cfg.Mail.From, cfg.Mail.OwnerEmail))
	}
	if cfg.SMSEnabled() {
		out = append(out, notify.NewSMSEmitter(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From, cfg.SMS.OwnerPhone))
	}
	log.Info("new lead alerts", slog.Bool("email", cfg.MailEnabled()), slog.Bool("sms", cfg.SMSEnabled()))
	return out
}
