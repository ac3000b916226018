package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/fromwithin/fromwithin/app/controllers"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// Wearable linking. The callback is hit by the provider redirect, so it
	// lives under /api where the access gate never interferes.
	wear := api.Group("/wearables")
	wear.Get("/status", controllers.HandleWearableStatus)
	wear.Get("/:provider/auth", controllers.HandleWearableAuth)
	wear.Get("/:provider/callback", controllers.HandleWearableCallback)
	wear.Post("/:provider/disconnect", controllers.HandleWearableDisconnect)

	// Checkout is started by the viewer the gate would otherwise bounce to
	// onboarding, so it must live under the exempt /api prefix.
	api.Post("/billing/checkout", controllers.HandleBillingCheckout)

	// Mentor chat + insights
	api.Post("/mentor/chat", controllers.HandleAPIMentorChat)
	api.Get("/energy/insight", controllers.HandleAPIEnergyInsight)

	// Chakra energy log
	api.Post("/chakra-logs", controllers.HandleAPIChakraCreate)
	api.Get("/chakra-logs", controllers.HandleAPIChakraList)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
