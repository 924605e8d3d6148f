package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sport-analytics/internal/api/http/handlers"
	"github.com/spec-kit/sport-analytics/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Pages  *handlers.PagesHandler
	Guard  *auth.Guard
}

// RegisterRoutes wires HTTP routes. API routes are registered ahead of the guard; the guard's
// exclusion pattern skips them as well.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api")
	api.Get("/health/live", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)
	api.Get("/metrics", cfg.Health.Metrics)

	app.Use(cfg.Guard.Handler())

	app.Get("/", cfg.Pages.Page("home", "Home"))

	app.Get("/sign-in", cfg.Pages.Page("sign-in", "Sign in"))
	app.Get("/sign-up", cfg.Pages.Page("sign-up", "Sign up"))
	app.Get("/forgot-password", cfg.Pages.Page("forgot-password", "Forgot password"))
	app.Get("/reset-password", cfg.Pages.Page("reset-password", "Reset password"))
	app.Get("/reset-password/:token", cfg.Pages.Page("reset-password", "Reset password"))

	dashboard := app.Group("/dashboard")
	dashboard.Get("/", cfg.Pages.Page("dashboard", "Dashboard"))
	dashboard.Get("/*", cfg.Pages.Page("dashboard", "Dashboard"))

	profile := app.Group("/profile")
	profile.Get("/", cfg.Pages.Page("profile", "Profile"))
	profile.Get("/*", cfg.Pages.Page("profile", "Profile"))
}
