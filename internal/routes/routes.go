// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"marketplace/internal/handlers"
	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/services/auth"
	"marketplace/internal/services/checkout"
	"marketplace/internal/services/copyright"
	"marketplace/internal/services/settings"

	"github.com/gofiber/fiber/v2"
)

// Services holds everything the HTTP layer depends on.
type Services struct {
	Auth      auth.Service
	Checkout  checkout.Service
	Settings  settings.Service
	Copyright *copyright.Service
	Health    *handlers.HealthHandler
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, svc Services) {
	authMiddleware := middleware.NewAuthMiddleware(svc.Auth)
	authHandler := handlers.NewAuthHandler(svc.Auth)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout)
	copyrightHandler := handlers.NewCopyrightHandler(svc.Copyright)
	settingsHandler := handlers.NewSettingsHandler(svc.Settings)

	health := svc.Health
	if health == nil {
		health = handlers.NewHealthHandler(nil, nil)
	}
	app.Get("/health", health.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/fees/quote", checkoutHandler.Quote)
	api.Post("/webhooks/stripe", checkoutHandler.StripeWebhook)
	api.Post("/dmca/complaints", authMiddleware.OptionalAuth, copyrightHandler.FileComplaint)

	// Authenticated endpoints
	authenticated := api.Group("", authMiddleware.Handler)

	authenticated.Post("/checkout", middleware.HasPermission(models.PermissionOrderWrite), checkoutHandler.CreateCheckout)
	authenticated.Get("/orders/:id", middleware.HasPermission(models.PermissionOrderRead), checkoutHandler.GetOrder)
	authenticated.Post("/orders/:id/refund", middleware.HasPermission(models.PermissionOrderWrite), checkoutHandler.RequestRefund)

	authenticated.Get("/dmca/complaints/:id", copyrightHandler.GetComplaint)
	authenticated.Post("/dmca/complaints/:id/counter-notice", middleware.HasPermission(models.PermissionDMCACounter), copyrightHandler.FileCounterNotice)

	seller := authenticated.Group("/seller")
	seller.Get("/strikes", middleware.HasPermission(models.PermissionStrikeRead), copyrightHandler.MyStrikes)
	seller.Post("/strikes/:id/appeal", middleware.HasPermission(models.PermissionStrikeAppeal), copyrightHandler.AppealStrike)
	seller.Post("/listings", middleware.HasPermission(models.PermissionListingWrite), copyrightHandler.CreateListing)
	seller.Post("/listings/:id/scan", middleware.HasPermission(models.PermissionListingWrite), copyrightHandler.ScanListing)

	// Admin endpoints
	admin := authenticated.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Get("/cache/stats", health.CacheStats)
	admin.Delete("/cache", health.FlushCache)

	admin.Get("/complaints", copyrightHandler.ListComplaints)
	admin.Get("/complaints/:id", copyrightHandler.GetComplaint)
	admin.Post("/complaints/:id/resolve", copyrightHandler.ResolveComplaint)
	admin.Post("/counter-notices/:id/review", copyrightHandler.ReviewCounterNotice)
	admin.Post("/listings/:id/action", copyrightHandler.ListingAction)

	admin.Post("/strikes", copyrightHandler.IssueStrike)
	admin.Post("/strikes/:id/review", copyrightHandler.ReviewAppeal)
	admin.Get("/sellers/:id/strikes", copyrightHandler.SellerStrikes)
	admin.Post("/sellers/:id/suspend", copyrightHandler.SuspendSeller)

	admin.Get("/banned-words", copyrightHandler.ListBannedWords)
	admin.Put("/banned-words", copyrightHandler.UpsertBannedWord)
	admin.Delete("/banned-words/:term", copyrightHandler.DeleteBannedWord)

	admin.Get("/settings/fees", settingsHandler.GetFeeSettings)
	admin.Put("/settings/fees", settingsHandler.UpdateFeeSettings)

	admin.Post("/orders/:id/refund", checkoutHandler.ProcessRefund)
	admin.Post("/orders/:id/payouts", checkoutHandler.ReleasePayouts)
}
