package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/firebase"
	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/service"
)

// RegisterHandler serves the standalone registration service.
type RegisterHandler struct {
	renderer
	registration service.RegistrationService
	notices      *flash.Signer
	logger       zerolog.Logger
}

// NewRegisterHandler constructs the registration handler.
func NewRegisterHandler(registration service.RegistrationService, notices *flash.Signer, logger zerolog.Logger) *RegisterHandler {
	return &RegisterHandler{
		renderer:     renderer{notices: notices},
		registration: registration,
		notices:      notices,
		logger:       logger.With().Str("component", "register_handler").Logger(),
	}
}

// Form renders the registration page.
func (h *RegisterHandler) Form(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "register", "Register", nil)
}

// Submit creates the identity and its metadata record.
func (h *RegisterHandler) Submit(c *fiber.Ctx) error {
	input := service.RegisterInput{
		Username:        strings.TrimSpace(formValue(c, "name")),
		Email:           strings.TrimSpace(formValue(c, "email")),
		Password:        strings.TrimSpace(formValue(c, "password")),
		Role:            strings.TrimSpace(formValue(c, "role")),
		AssignedClass:   strings.TrimSpace(formValue(c, "assignedClass")),
		AssignedSection: strings.TrimSpace(formValue(c, "assignedSection")),
	}

	if _, err := h.registration.Register(c.UserContext(), input); err != nil {
		return h.registrationFailed(c, err)
	}

	h.notices.Set(c, flash.LevelSuccess,
		fmt.Sprintf("User %s registered successfully as %s", input.Username, input.Role))
	return c.Redirect("/", fiber.StatusFound)
}

func (h *RegisterHandler) registrationFailed(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	var providerErr *firebase.ProviderError

	switch {
	case errors.As(err, &validationErrs):
		h.notices.Set(c, flash.LevelDanger, "All fields required and role must be teacher or counselor")
	case errors.As(err, &providerErr):
		h.notices.Set(c, flash.LevelDanger, "Error creating user: "+providerErr.Message)
	default:
		h.logger.Error().Err(err).Msg("registration failed")
		h.notices.Set(c, flash.LevelDanger, "Registration failed, try again later")
	}

	return c.Redirect("/", fiber.StatusFound)
}
