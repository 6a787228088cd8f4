package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/accomnote/internal/firebase"
	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/middleware"
	"github.com/noah-isme/accomnote/internal/service"
)

// AuthHandler serves the login and logout surface.
type AuthHandler struct {
	renderer
	auth       service.AuthService
	notices    *flash.Signer
	cookieName string
	logger     zerolog.Logger
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(auth service.AuthService, notices *flash.Signer, cookieName string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		renderer:   renderer{notices: notices},
		auth:       auth,
		notices:    notices,
		cookieName: cookieName,
		logger:     logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Index sends authenticated visitors to their dashboard and everyone else to
// the login page.
func (h *AuthHandler) Index(c *fiber.Ctx) error {
	if _, ok := middleware.SessionFromCtx(c); ok {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return c.Redirect("/login", fiber.StatusFound)
}

// LoginForm renders the sign-in page.
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "login", "Sign in", nil)
}

// Login authenticates the submitted credentials and establishes a session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(formValue(c, "email"))
	password := strings.TrimSpace(formValue(c, "password"))

	if email == "" || password == "" {
		h.notices.Set(c, flash.LevelWarning, "Enter email and password")
		return c.Redirect("/login", fiber.StatusFound)
	}

	sess, err := h.auth.Login(c.UserContext(), email, password)
	if err != nil {
		return h.loginFailed(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	h.notices.Set(c, flash.LevelSuccess, fmt.Sprintf("Logged in as %s", sess.Role))
	return c.Redirect("/dashboard", fiber.StatusFound)
}

func (h *AuthHandler) loginFailed(c *fiber.Ctx, err error) error {
	var providerErr *firebase.ProviderError

	switch {
	case errors.As(err, &providerErr):
		h.notices.Set(c, flash.LevelDanger, "Login failed: "+providerErr.Message)
	case errors.Is(err, firebase.ErrEmptyCredentials):
		h.notices.Set(c, flash.LevelWarning, "Enter email and password")
	case errors.Is(err, service.ErrMetadataNotFound):
		h.notices.Set(c, flash.LevelDanger, "User metadata not found in database.")
	default:
		h.logger.Error().Err(err).Msg("login failed")
		h.notices.Set(c, flash.LevelDanger, "Login failed, try again later")
	}

	return c.Redirect("/login", fiber.StatusFound)
}

// Logout clears the whole session and its cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if id := c.Cookies(h.cookieName); id != "" {
		if err := h.auth.Logout(c.UserContext(), id); err != nil {
			h.logger.Error().Err(err).Msg("session delete failed")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	h.notices.Set(c, flash.LevelInfo, "Logged out successfully")
	return c.Redirect("/login", fiber.StatusFound)
}
