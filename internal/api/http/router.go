package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/janus-pm/janus/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Intake    *handlers.IntakeHandler
	Tickets   *handlers.TicketsHandler
	Directory *handlers.DirectoryHandler
	Admin     *handlers.AdminHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/email-intake", cfg.Intake.ProcessEmail)

	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Get("/tickets/:ticketId", cfg.Tickets.GetTicket)
	api.Post("/tickets/:ticketId/reply", cfg.Tickets.Reply)
	api.Post("/tickets/:ticketId/notify-vendor", cfg.Tickets.NotifyVendor)

	api.Get("/vendors", cfg.Directory.ListVendors)
	api.Get("/residents", cfg.Directory.ListResidents)

	api.Post("/admin/smtp/test", cfg.Admin.TestSMTP)
}
