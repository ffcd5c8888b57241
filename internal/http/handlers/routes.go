package handlers

import (
	"vendorhub/internal/app"
	"vendorhub/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services) {
	// Auth routes (no authentication required)
	authHandler := NewAuthHandler(services.AuthService)
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)

	availabilityHandler := NewAvailabilityHandler(services.VendorRepo, services.Reconciler)

	// Public storefront status (banner + open/closed display)
	api.GET("/store/:slug/status", availabilityHandler.GetStoreStatus)

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(services.AuthService))

	// Vendor availability settings
	vendors := protected.Group("/vendors")
	vendors.Use(middleware.VendorUserOrAbove())
	vendors.GET("/availability", availabilityHandler.GetAvailability)
	vendors.PUT("/availability", availabilityHandler.UpdateAvailability)
	vendors.GET("/availability/upcoming", availabilityHandler.GetUpcomingEvents)

	// Platform admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.PlatformAdminOnly())
	adminHandler := NewAdminHandler(services.Reconciler)
	admin.POST("/reconcile", adminHandler.TriggerReconcile)
	admin.GET("/reconcile/status", adminHandler.GetReconcilerStatus)
}
