package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/middleware"
	"github.com/noah-isme/accomnote/internal/models"
	"github.com/noah-isme/accomnote/internal/service"
)

// StudentHandler serves the add/edit student form.
type StudentHandler struct {
	renderer
	students service.StudentService
	notices  *flash.Signer
	logger   zerolog.Logger
}

// NewStudentHandler constructs the student handler.
func NewStudentHandler(students service.StudentService, notices *flash.Signer, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		renderer: renderer{notices: notices},
		students: students,
		notices:  notices,
		logger:   logger.With().Str("component", "student_handler").Logger(),
	}
}

// Form renders the add/edit page. Teachers never see the class/section
// inputs; their target is fixed by their assignment.
func (h *StudentHandler) Form(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromCtx(c)

	return h.render(c, fiber.StatusOK, "add_student", "Add student", fiber.Map{
		"ShowTarget": sess.Role != models.RoleTeacher,
	})
}

// Submit upserts one student record from the form.
func (h *StudentHandler) Submit(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFromCtx(c)

	input := service.AddStudentInput{
		Class:          formValue(c, "class"),
		Section:        formValue(c, "section"),
		Name:           formValue(c, "name"),
		SpecialNeeds:   formValue(c, "specialNeeds"),
		Progress:       formValue(c, "progress"),
		Accommodations: formValue(c, "accommodations"),
		Notes:          formValue(c, "notes"),
	}

	result, err := h.students.Add(c.UserContext(), sess, input)
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) {
			h.notices.Set(c, flash.LevelWarning, "Student name is required")
		} else {
			h.logger.Error().Err(err).Msg("add student failed")
			h.notices.Set(c, flash.LevelDanger, "Student could not be saved: "+err.Error())
		}
		return c.Redirect("/add_student", fiber.StatusFound)
	}

	h.notices.Set(c, flash.LevelSuccess,
		fmt.Sprintf("Student %s added to %s/%s", strings.TrimSpace(input.Name), result.Class, result.Section))
	return c.Redirect("/dashboard", fiber.StatusFound)
}
