package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/middleware"
	"github.com/noah-isme/accomnote/internal/models"
	"github.com/noah-isme/accomnote/internal/service"
)

// roleRoutes is the single source of truth mapping a role to its dashboard.
var roleRoutes = map[models.Role]string{
	models.RoleTeacher:   "/teacher",
	models.RoleCounselor: "/counselor",
}

// DashboardHandler serves the role dispatcher and both dashboards.
type DashboardHandler struct {
	renderer
	students service.StudentService
	logger   zerolog.Logger
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(students service.StudentService, notices *flash.Signer, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		renderer: renderer{notices: notices},
		students: students,
		logger:   logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Dispatch routes an authenticated session to its role's dashboard. Sessions
// whose role maps to no dashboard get an explicit error page instead of a
// redirect loop.
func (h *DashboardHandler) Dispatch(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromCtx(c)

	route, ok := roleRoutes[sess.Role]
	if !ok {
		h.logger.Warn().Str("uid", sess.UID).Str("role", sess.Role.String()).Msg("session with unrecognized role")
		return h.renderError(c, fiber.StatusForbidden,
			"Unknown role", "Your account role is not recognized. Please contact an administrator.")
	}

	return c.Redirect(route, fiber.StatusFound)
}

// Teacher lists the students of the teacher's own class section.
func (h *DashboardHandler) Teacher(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromCtx(c)

	students, err := h.students.ListSection(c.UserContext(), sess.AssignedClass, sess.AssignedSection)
	if err != nil {
		h.logger.Error().Err(err).Msg("list section failed")
		return h.renderError(c, fiber.StatusInternalServerError,
			"Something went wrong", "The student records could not be loaded.")
	}

	return h.render(c, fiber.StatusOK, "teacher_dashboard", "My class", fiber.Map{
		"Class":    sess.AssignedClass,
		"Section":  sess.AssignedSection,
		"Students": students,
	})
}

// Counselor lists every class and section.
func (h *DashboardHandler) Counselor(c *fiber.Ctx) error {
	classes, err := h.students.ListAll(c.UserContext())
	if err != nil {
		h.logger.Error().Err(err).Msg("list classes failed")
		return h.renderError(c, fiber.StatusInternalServerError,
			"Something went wrong", "The class records could not be loaded.")
	}

	return h.render(c, fiber.StatusOK, "counselor_dashboard", "All classes", fiber.Map{
		"Classes": classes,
	})
}
