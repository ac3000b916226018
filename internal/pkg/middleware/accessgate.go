package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fromwithin/fromwithin/internal/pkg/accessgate"
	"github.com/fromwithin/fromwithin/internal/pkg/entitlements"
	"github.com/fromwithin/fromwithin/internal/pkg/usercontext"
)

// EntitlementSource supplies the viewer facts for one request. It must be
// side-effect free from the gate's point of view so the decision stays a
// pure function of its inputs.
type EntitlementSource interface {
	Resolve(c *fiber.Ctx) entitlements.Viewer
}

// SessionSource reads the viewer facts the UserContextMiddleware already
// resolved into request locals.
type SessionSource struct{}

// Resolve returns the viewer derived for this request.
func (SessionSource) Resolve(c *fiber.Ctx) entitlements.Viewer {
	return usercontext.GetUserContext(c).Viewer()
}

// AccessGate evaluates the navigation gate on every request and turns the
// decision into a redirect or lets the request pass.
func AccessGate(source EntitlementSource, cfg accessgate.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := accessgate.Decide(cfg, c.Path(), source.Resolve(c))
		if decision.Allowed() {
			return c.Next()
		}
		return c.Redirect(decision.Target, fiber.StatusSeeOther)
	}
}
