package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/fromwithin/fromwithin/internal/pkg/usercontext"
)

// render wraps c.Render with the values every page shell needs.
func render(c *fiber.Ctx, template string, data fiber.Map) error {
	uc := usercontext.GetUserContext(c)
	vals := fiber.Map{
		"IsLoggedIn":        uc.IsLoggedIn,
		"Username":          uc.Username,
		"WearableConnected": uc.WearableConnected,
		"Flash":             flash.Get(c),
	}
	if token, ok := c.Locals("csrf").(string); ok {
		vals["Csrf"] = token
	}
	for k, v := range data {
		vals[k] = v
	}
	return c.Render(template, vals)
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
