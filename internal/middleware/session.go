package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/models"
	"github.com/noah-isme/accomnote/internal/session"
)

const localsSessionKey = "session"

// LoadSession resolves the session cookie against the store and binds the
// session to the request. An unknown or expired cookie is the same as no
// cookie; downstream guards decide what that means.
func LoadSession(cookieName string, sessions session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.Cookies(cookieName); id != "" {
			if sess, err := sessions.Get(c.UserContext(), id); err == nil {
				c.Locals(localsSessionKey, sess)
			}
		}
		return c.Next()
	}
}

// SessionFromCtx returns the session bound by LoadSession, if any.
func SessionFromCtx(c *fiber.Ctx) (session.Session, bool) {
	if value := c.Locals(localsSessionKey); value != nil {
		if sess, ok := value.(session.Session); ok && sess.UID != "" {
			return sess, true
		}
	}
	return session.Session{}, false
}

// RequireSession redirects anonymous requests to the login page with a notice.
func RequireSession(notices *flash.Signer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SessionFromCtx(c); !ok {
			notices.Set(c, flash.LevelWarning, "Please log in first")
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireRole sends sessions with the wrong role back to the dashboard
// dispatcher, which re-routes them by their actual role.
func RequireRole(notices *flash.Signer, roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromCtx(c)
		if !ok {
			notices.Set(c, flash.LevelWarning, "Please log in first")
			return c.Redirect("/login", fiber.StatusFound)
		}

		if _, ok := allowed[sess.Role]; !ok {
			notices.Set(c, flash.LevelDanger, "Not authorized for this dashboard")
			return c.Redirect("/dashboard", fiber.StatusFound)
		}

		return c.Next()
	}
}
