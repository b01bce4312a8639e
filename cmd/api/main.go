package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoiceau-api/internal/application/service"
	"github.com/sangkips/invoiceau-api/internal/config"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/database"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/kvstore"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/render"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/repository"
	"github.com/sangkips/invoiceau-api/internal/infrastructure/storage"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/handler"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/middleware"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/routes"
	"github.com/sangkips/invoiceau-api/pkg/email"
	"github.com/sangkips/invoiceau-api/pkg/logger"
	"github.com/sangkips/invoiceau-api/pkg/metrics"
	"github.com/sangkips/invoiceau-api/pkg/oauth"
	"github.com/sangkips/invoiceau-api/pkg/payment"
	"github.com/sangkips/invoiceau-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	previewTTL      = 24 * time.Hour
	cleanupInterval = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, readErr := config.Load()
	if cfg == nil {
		log.Fatalf("Failed to load configuration: %v", readErr)
	}

	appLogger, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		OutputPath: cfg.Log.OutputPath,
		Format:     cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if readErr != nil {
		appLogger.Info("configuration loaded from environment", zap.String("reason", readErr.Error()))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database, cfg.App.Debug, appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, appLogger); err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	sessionStore, closeStore, err := newSessionStore(ctx, cfg, db, appLogger)
	if err != nil {
		appLogger.Fatal("failed to initialize session store", zap.Error(err), zap.String("store", cfg.Gate.Store))
	}
	defer closeStore()

	appMetrics := metrics.New()

	// Initialize email service
	emailService, err := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})
	if err != nil {
		appLogger.Fatal("failed to initialize email service", zap.Error(err))
	}

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	stripeClient := payment.NewStripeClient(payment.Config{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		PriceCents:    cfg.Stripe.PriceCents,
		Currency:      cfg.Stripe.Currency,
		ProductName:   cfg.Stripe.ProductName,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
	})

	// Rendering and uploads
	pages, err := render.NewPages()
	if err != nil {
		appLogger.Fatal("failed to parse invoice templates", zap.Error(err))
	}
	pdfRenderer := render.NewWkhtmltopdfRenderer(cfg.PDF.BinaryPath, cfg.PDF.Timeout)
	logoStore, err := storage.NewLogoStore(cfg.Storage.Path, cfg.Storage.UploadMaxSize)
	if err != nil {
		appLogger.Fatal("failed to prepare storage", zap.Error(err))
	}

	// Initialize services
	companyService, err := service.NewCompanyService(companyRepo, logoStore, cfg.Cache.CompanySize, appMetrics, appLogger)
	if err != nil {
		appLogger.Fatal("failed to initialize company service", zap.Error(err))
	}
	gate := service.NewDuplicateGate(sessionStore, cfg.Gate.TTL, appMetrics, appLogger)
	deliveryService := service.NewDeliveryService(pages, pdfRenderer, emailService, appMetrics, appLogger)
	invoiceService := service.NewInvoiceService(invoiceRepo, companyService, gate, deliveryService, sessionStore, previewTTL, appLogger)
	historyService := service.NewHistoryService(userRepo, invoiceRepo)
	exportService := service.NewExportService(historyService, appLogger)
	authService := service.NewAuthService(userRepo, jwtManager, googleOAuthService, appLogger)
	profileService := service.NewProfileService(userRepo)
	premiumService := service.NewPremiumService(userRepo, stripeClient, appLogger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService, googleOAuthService, oauth.GenerateState, appLogger),
		Invoice: handler.NewInvoiceHandler(invoiceService),
		History: handler.NewHistoryHandler(historyService, exportService),
		Company: handler.NewCompanyHandler(companyService),
		Profile: handler.NewProfileHandler(profileService),
		Premium: handler.NewPremiumHandler(premiumService),
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.RateLimit.Requests,
		Window:   time.Duration(cfg.RateLimit.Duration) * time.Second,
	})
	go rateLimiter.Run(ctx.Done())

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:  jwtManager,
		Cfg:         cfg,
		Logger:      appLogger,
		Sessions:    middleware.NewCookieStore(&cfg.Session),
		Metrics:     appMetrics,
		RateLimiter: rateLimiter,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("starting server",
			zap.String("name", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("gate_store", cfg.Gate.Store),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newSessionStore builds the store behind duplicate suppression and preview
// data, and starts its expiry sweeper where the backend needs one
func newSessionStore(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (kvstore.Store, func(), error) {
	switch cfg.Gate.Store {
	case "redis":
		store, err := kvstore.NewRedisStore(cfg.Redis.URL, "invoiceau:")
		if err != nil {
			return nil, nil, err
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "database":
		store := kvstore.NewDatabaseStore(repository.NewSessionEntryRepository(db), log)
		go store.RunCleanup(ctx, cleanupInterval)
		return store, func() {}, nil

	default:
		store := kvstore.NewMemoryStore()
		go func() {
			ticker := time.NewTicker(cleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n := store.Sweep(); n > 0 {
						log.Debug("swept expired session entries", zap.Int("count", n))
					}
				}
			}
		}()
		return store, func() {}, nil
	}
}
