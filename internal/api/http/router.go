package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/policy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	FrontendOrigin string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendOrigin,
		AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPatch, fiber.MethodOptions}, ","),
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Get("/health", cfg.Health.Health)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Users.Me)

	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Patch("/tickets/:id", auth.RequireCapability(policy.UpdateTicket), cfg.Tickets.UpdateTicket)

	protected.Get("/tickets/:id/comments", cfg.Comments.ListComments)
	protected.Post("/tickets/:id/comments", cfg.Comments.AddComment)
}
