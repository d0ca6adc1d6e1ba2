package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/customer-service/internal/api/http/handlers"
	"github.com/spec-kit/customer-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Customers      *handlers.CustomersHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/login", cfg.Auth.Login)
	app.Post("/admin-login", cfg.Auth.AdminLogin)
	app.Post("/register", cfg.Auth.Register)
	app.Post("/logout", cfg.Auth.Logout)
	app.Get("/me", cfg.Auth.Me)
	app.Get("/admin-me", cfg.Auth.AdminMe)

	customers := app.Group("/customers", cfg.AuthMiddleware.Handle)
	customers.Get("/", auth.Require(auth.OpCustomerList), cfg.Customers.List)
	customers.Post("/", auth.Require(auth.OpCustomerCreate), cfg.Customers.Create)
	customers.Put("/", auth.Require(auth.OpCustomerUpdate), cfg.Customers.Update)
	customers.Delete("/", auth.Require(auth.OpCustomerDelete), cfg.Customers.Delete)
	customers.Get("/:id", auth.Require(auth.OpCustomerGet), cfg.Customers.Get)

	// Admin routes answer 403 to every non-admin caller, authenticated or not.
	admin := app.Group("/admin", cfg.AuthMiddleware.RequireAdmin)
	admin.Get("/staff", cfg.Staff.List)
	admin.Delete("/staff", cfg.Staff.Delete)
	admin.Get("/stats", cfg.Staff.Stats)
}
