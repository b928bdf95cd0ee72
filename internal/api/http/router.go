package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/property-service/internal/api/http/handlers"
	"github.com/propdesk/property-service/internal/auth"
	"github.com/propdesk/property-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Every protected route runs token
// verification, role resolution and the role gate in that order.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/api/health", cfg.Health.Health)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/api/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Session.Me)

	adminGroup := app.Group("/api/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	adminGroup.Post("/managers", cfg.Admin.CreateManager)
	adminGroup.Get("/managers", cfg.Admin.ListManagers)
	adminGroup.Post("/invite", cfg.Admin.InviteUser)
}
