package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/accomnote/internal/flash"
	"github.com/noah-isme/accomnote/internal/middleware"
)

// renderer binds the flash notice and session identity into every view.
type renderer struct {
	notices *flash.Signer
}

func (r renderer) render(c *fiber.Ctx, status int, name, title string, data fiber.Map) error {
	bind := fiber.Map{"Title": title}
	for key, value := range data {
		bind[key] = value
	}

	if notice, ok := r.notices.Pop(c); ok {
		bind["Notice"] = notice
	}
	if sess, ok := middleware.SessionFromCtx(c); ok {
		bind["Username"] = sess.Username
	}

	return c.Status(status).Render(name, bind)
}

func (r renderer) renderError(c *fiber.Ctx, status int, heading, detail string) error {
	return r.render(c, status, "error", heading, fiber.Map{
		"Heading": heading,
		"Detail":  detail,
	})
}

func formValue(c *fiber.Ctx, key string) string {
	// Missing fields coerce to ""; there is no hard form validation here.
	return c.FormValue(key, "")
}
