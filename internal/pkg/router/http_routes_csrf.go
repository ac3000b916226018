package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/fromwithin/fromwithin/app/controllers"
	"github.com/fromwithin/fromwithin/internal/pkg/constants"
	"github.com/fromwithin/fromwithin/internal/pkg/env"
	"github.com/fromwithin/fromwithin/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get(constants.PublicRoute, loggedInMiddleware, controllers.HandleStart)
	group.Get(constants.WelcomeRoute, loggedInMiddleware, controllers.HandleWelcome)
	group.Get(constants.LoginRoute, loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post(constants.LoginRoute, loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get(constants.RegisterRoute, loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post(constants.RegisterRoute, loggedInMiddleware, controllers.HandleAuthRegister)
	group.Get("/activate", loggedInMiddleware, controllers.HandleAuthActivate)

	group.Get(constants.OnboardingRoute, middleware.RequireAuth, controllers.HandleOnboarding)
	group.Get(constants.HomeRoute, middleware.RequireAuth, controllers.HandleHome)
	group.Get(constants.InsightsRoute, middleware.RequireAuth, controllers.HandleInsights)
}
