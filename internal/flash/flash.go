// Package flash implements one-shot notices carried in a signed cookie, the
// server-rendered equivalent of Flask-style flash messages. The cookie is
// HMAC-signed with the shared session secret so a client cannot forge notice
// levels or text that end up rendered into a page.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const cookieName = "accomnote_flash"

// Notice levels map onto the alert styles of the rendered templates.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// Notice is a single flash message.
type Notice struct {
	Level   string
	Message string
}

// Signer sets and pops flash cookies for a request.
type Signer struct {
	secret []byte
}

// NewSigner builds a Signer keyed by the shared session secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Set queues a notice for the next rendered page.
func (s *Signer) Set(c *fiber.Ctx, level, message string) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(level + "\x00" + message))
	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    payload + "." + s.sign(payload),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Pop returns the pending notice, if any, and clears the cookie. Tampered or
// malformed cookies are dropped silently.
func (s *Signer) Pop(c *fiber.Ctx) (Notice, bool) {
	raw := c.Cookies(cookieName)
	if raw == "" {
		return Notice{}, false
	}

	c.Cookie(&fiber.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	payload, signature, ok := strings.Cut(raw, ".")
	if !ok || !hmac.Equal([]byte(s.sign(payload)), []byte(signature)) {
		return Notice{}, false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Notice{}, false
	}

	level, message, ok := strings.Cut(string(decoded), "\x00")
	if !ok {
		return Notice{}, false
	}

	return Notice{Level: level, Message: message}, true
}

func (s *Signer) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
