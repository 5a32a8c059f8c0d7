package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/billcraft/invoice-api/internal/config"
	"github.com/billcraft/invoice-api/internal/domain/repository"
	"github.com/billcraft/invoice-api/internal/presentation/http/handler"
	"github.com/billcraft/invoice-api/internal/presentation/http/middleware"
	"github.com/billcraft/invoice-api/pkg/utils"
)

// Handlers groups the HTTP handlers wired into the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	Invoice *handler.InvoiceHandler
}

// Deps groups the cross-cutting dependencies the router needs.
type Deps struct {
	Cfg             *config.Config
	JWTManager      *utils.JWTManager
	IdempotencyRepo repository.IdempotencyRepository
}

// Setup builds the router with all middleware and routes registered.
func Setup(h Handlers, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
		BurstSize:         deps.Cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          15 * time.Minute,
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWTManager))
	protected.Use(rateLimiter.Middleware())
	{
		protected.GET("/auth/profile", h.Auth.GetProfile)

		invoices := protected.Group("/invoices")
		{
			invoices.GET("", middleware.RequirePermission("view-invoices"), h.Invoice.List)
			invoices.GET("/export", middleware.RequirePermission("view-invoices"), h.Invoice.Export)
			invoices.GET("/:id", middleware.RequirePermission("view-invoices"), h.Invoice.Get)
			invoices.GET("/:id/pdf", middleware.RequirePermission("view-invoices"), h.Invoice.GetPDF)
			invoices.POST("",
				middleware.RequirePermission("add-invoice"),
				middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
				h.Invoice.Create,
			)
			invoices.POST("/:id/send", middleware.RequirePermission("add-invoice"), h.Invoice.Send)
		}
	}

	return router
}
