package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sangkips/invoiceau-api/internal/config"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/handler"
	"github.com/sangkips/invoiceau-api/internal/presentation/http/middleware"
	"github.com/sangkips/invoiceau-api/pkg/metrics"
	"github.com/sangkips/invoiceau-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Invoice *handler.InvoiceHandler
	History *handler.HistoryHandler
	Company *handler.CompanyHandler
	Profile *handler.ProfileHandler
	Premium *handler.PremiumHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager  *utils.JWTManager
	Cfg         *config.Config
	Logger      *zap.Logger
	Sessions    sessions.Store
	Metrics     *metrics.Metrics
	RateLimiter *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(deps.Metrics.Middleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", deps.Metrics.Handler())

	// Stripe calls back without a browser session
	router.POST("/stripe/webhook", h.Premium.Webhook)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.SessionMiddleware(deps.Sessions, deps.Cfg.Session.CookieName, deps.Logger))
	v1.Use(middleware.OptionalAuthMiddleware(deps.JWTManager))
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		// Public routes, anonymous clients get rendered invoices that are never stored
		registerAuthRoutes(v1, h)
		registerSubmissionRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerSubmissionRoutes(v1 *gin.RouterGroup, h *Handlers) {
	invoices := v1.Group("/invoices")
	{
		invoices.POST("/preview", h.Invoice.Preview)
		invoices.GET("/preview", h.Invoice.LastPreview)
		invoices.GET("/preview/html", h.Invoice.PreviewHTML)
		invoices.POST("/download", h.Invoice.Download)
		invoices.POST("/email", h.Invoice.Email)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/auth/me", h.Auth.Me)

	// Profile
	protected.GET("/profile", h.Profile.Get)
	protected.PUT("/profile", h.Profile.Update)

	// Companies
	protected.GET("/companies", h.Company.List)
	protected.POST("/companies", h.Company.Create)

	// Stored invoices
	invoices := protected.Group("/invoices")
	{
		invoices.GET("/history", h.History.List)
		invoices.GET("/history/export", h.History.Export)
		invoices.GET("/:shape/:id", h.Invoice.Get)
		invoices.POST("/:shape/:id/paid", h.Invoice.MarkPaid)
		invoices.GET("/:shape/:id/pdf", h.Invoice.RecordPDF)
	}

	// Premium
	premium := protected.Group("/premium")
	{
		premium.POST("/checkout", h.Premium.Checkout)
		premium.GET("/success", h.Premium.Success)
	}
}
