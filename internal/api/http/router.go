package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/event-reservation/internal/api/http/handlers"
	"github.com/spec-kit/event-reservation/internal/auth"
	"github.com/spec-kit/event-reservation/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Events         *handlers.EventsHandler
	Reservations   *handlers.ReservationsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// NewApp creates the fiber application with the service's error handler.
// Immutable keeps request values valid after the handler returns.
func NewApp(name string, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		Immutable:             true,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger, metrics),
	})
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/signup", cfg.Auth.SignUp)
	app.Post("/signin", cfg.Auth.SignIn)
	app.Get("/events/all", cfg.Events.ListAll)

	authn := cfg.AuthMiddleware.Handle
	with := auth.WithPrincipal

	app.Post("/signout", authn, with(cfg.Auth.SignOut))
	app.Get("/user", authn, with(cfg.Auth.CurrentUser))

	events := app.Group("/events", authn)
	events.Get("/", auth.Require(auth.PermManageEvents), with(cfg.Events.ListManaged))
	events.Post("/", auth.Require(auth.PermCreateEvents), with(cfg.Events.Create))
	events.Get("/:id", with(cfg.Events.Get))
	events.Put("/:id", auth.Require(auth.PermManageEvents), with(cfg.Events.Update))
	events.Delete("/:id", auth.Require(auth.PermManageEvents), with(cfg.Events.Delete))

	reservations := app.Group("/reservations", authn)
	reservations.Get("/", with(cfg.Reservations.List))
	reservations.Post("/", auth.Require(auth.PermReserveSeats), with(cfg.Reservations.Create))
	reservations.Delete("/", auth.Require(auth.PermReserveSeats), with(cfg.Reservations.Cancel))

	admin := app.Group("/admin", authn, auth.Require(auth.PermAdmin))
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.CreateUser)
	admin.Put("/users/:id", cfg.Admin.UpdateUser)
	admin.Delete("/users/:id", with(cfg.Admin.DeleteUser))

	admin.Get("/events", cfg.Admin.ListEvents)
	admin.Put("/events/:id", with(cfg.Events.Update))
	admin.Delete("/events/:id", with(cfg.Events.Delete))
	admin.Get("/events/:id/reservations", cfg.Admin.ListReservations)
	admin.Put("/events/:id/reservations/:reservationId", with(cfg.Admin.UpdateReservation))
	admin.Delete("/events/:id/reservations/:reservationId", with(cfg.Admin.DeleteReservation))
}
