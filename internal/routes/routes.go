// Package routes defines the API routing configuration.
package routes

import (
	"time"

	"kudi/internal/handlers"
	"kudi/internal/middleware"
	"kudi/internal/repositories"
	"kudi/internal/repositories/cache"
	"kudi/internal/services/auth"
	"kudi/internal/services/banking"
	"kudi/internal/services/notification"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// Dependencies are the shared resources the routes are built from.
type Dependencies struct {
	DB        *gorm.DB
	Cache     *cache.CacheService // nil runs without redis
	Publisher notification.Publisher
	Banking   banking.Config
	// AuthRateLimit is the number of register or login attempts allowed per
	// IP and minute. Zero disables the limiter.
	AuthRateLimit int
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	identityRepo := repositories.NewIdentityRepository(deps.DB, deps.Cache)
	authService := auth.NewService(identityRepo)

	var locker banking.Locker
	if deps.Cache != nil {
		locker = deps.Cache
	}
	bankingService := banking.NewService(
		repositories.NewProfileRepository(deps.DB),
		repositories.NewTransactionRepository(deps.DB),
		repositories.NewBankAccountRepository(deps.DB),
		repositories.NewAuditLogRepository(deps.DB),
		deps.Publisher,
		locker,
		deps.Banking,
	)

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache)
	authHandler := handlers.NewAuthHandler(authService)
	bankingHandler := handlers.NewBankingHandler(bankingService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	app.Get("/", healthHandler.Landing)
	app.Get("/health", healthHandler.Health)

	api := app.Group("/api")
	if deps.AuthRateLimit > 0 {
		api.Post("/register", authLimiter(deps.AuthRateLimit), authHandler.Register)
		api.Post("/login", authLimiter(deps.AuthRateLimit), authHandler.Login)
	} else {
		api.Post("/register", authHandler.Register)
		api.Post("/login", authHandler.Login)
	}
	api.Post("/refresh", authHandler.Refresh)

	protected := api.Group("", authMiddleware.Handler)
	protected.Post("/logout", authHandler.Logout)
	protected.Get("/cache/stats", healthHandler.CacheStats)

	protected.Get("/dashboard", bankingHandler.GetDashboard)
	protected.Get("/profile", bankingHandler.GetProfile)

	protected.Get("/transactions", bankingHandler.GetTransactions)
	protected.Delete("/transactions/:id", bankingHandler.DeleteTransaction)
	protected.Post("/verification-payments", bankingHandler.CreateVerificationPayment)

	protected.Get("/bank-accounts", bankingHandler.GetBankAccounts)
	protected.Post("/bank-accounts", bankingHandler.CreateBankAccount)
	protected.Put("/bank-accounts/:id", bankingHandler.UpdateBankAccount)
	protected.Delete("/bank-accounts/:id", bankingHandler.DeleteBankAccount)

	protected.Get("/audit-logs", bankingHandler.GetAuditLogs)
}

func authLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}
