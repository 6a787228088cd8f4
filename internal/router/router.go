package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/accomnote/internal/config"
	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/handler"
	"github.com/noah-isme/accomnote/internal/middleware"
	"github.com/noah-isme/accomnote/internal/models"
	"github.com/noah-isme/accomnote/internal/observability"
	"github.com/noah-isme/accomnote/internal/session"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Student   *handler.StudentHandler
	Sessions  session.Store
	Notices   *flash.Signer
}

// Register wires the main application's HTTP routes into the fiber app.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Use(middleware.LoadSession(cfg.CookieName, deps.Sessions))

	app.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	app.Get("/", deps.Auth.Index)
	app.Get("/login", deps.Auth.LoginForm)
	app.Post("/login", deps.Auth.Login)
	app.Get("/logout", deps.Auth.Logout)

	requireSession := middleware.RequireSession(deps.Notices)

	app.Get("/dashboard", requireSession, deps.Dashboard.Dispatch)
	app.Get("/teacher", middleware.RequireRole(deps.Notices, models.RoleTeacher), deps.Dashboard.Teacher)
	app.Get("/counselor", middleware.RequireRole(deps.Notices, models.RoleCounselor), deps.Dashboard.Counselor)

	app.Get("/add_student", requireSession, deps.Student.Form)
	app.Post("/add_student", requireSession, deps.Student.Submit)
}

// RegisterService wires the standalone registration service's routes.
func RegisterService(app *fiber.App, cfg config.Config, register *handler.RegisterHandler) {
	app.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	app.Get("/", register.Form)
	app.Post("/", register.Submit)
}
