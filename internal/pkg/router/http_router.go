package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fromwithin/fromwithin/internal/pkg/accessgate"
	"github.com/fromwithin/fromwithin/internal/pkg/middleware"
	"github.com/fromwithin/fromwithin/internal/pkg/oauth"
	"github.com/fromwithin/fromwithin/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Route every page request through the access gate. API routes are
	// exempt inside the gate itself.
	app.Use(middleware.AccessGate(middleware.SessionSource{}, accessgate.DefaultConfig()))

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context
	// This middleware now just passes through - no additional logic needed
	// All user information is available via usercontext.GetUserContext(c)
	return c.Next()
}

// Auth middlewares live in internal/pkg/middleware/auth.go
