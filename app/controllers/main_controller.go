package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/fromwithin/fromwithin/app/repository"
	"github.com/fromwithin/fromwithin/internal/pkg/database"
	"github.com/fromwithin/fromwithin/internal/pkg/usercontext"
	"github.com/fromwithin/fromwithin/internal/pkg/wearables"
)

// HandleStart serves "/". The route middleware normally redirects before
// this runs; anyone who still lands here sees the welcome page.
func HandleStart(c *fiber.Ctx) error {
	return HandleWelcome(c)
}

func HandleWelcome(c *fiber.Ctx) error {
	return render(c, "welcome", fiber.Map{
		"Title": "From Within",
	})
}

// HandleOnboarding shows the two setup steps: connect a wearable and start
// a subscription. Finished steps render as done so a user sent here for
// one missing step is not asked to redo the other.
func HandleOnboarding(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	viewer := uc.Viewer()

	return render(c, "onboarding", fiber.Map{
		"Title":     "Get set up",
		"Providers": wearables.Providers(),
		"HasAccess": viewer.HasAccess(),
	})
}

func HandleHome(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{
		"Title": "Today",
	})
}

// HandleInsights renders the wearable status page. After a link attempt the
// callback lands here with provider/status (and reason on failure) in the
// query string.
func HandleInsights(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	var connections []interface{}
	if uc.UserID != 0 {
		conns, err := repository.NewWearableRepository(database.GetDB()).ListByUser(uc.UserID)
		if err != nil {
			log.Printf("listing wearable connections for user %d failed: %v", uc.UserID, err)
		}
		for _, conn := range conns {
			connections = append(connections, fiber.Map{
				"Provider":     conn.Provider,
				"SourceDevice": conn.SourceDevice,
				"ConnectedAt":  conn.CreatedAt,
			})
		}
	}

	return render(c, "insights", fiber.Map{
		"Title":        "Insights",
		"Connections":  connections,
		"LinkProvider": c.Query("provider"),
		"LinkStatus":   c.Query("status"),
		"LinkReason":   c.Query("reason"),
		"HasAccess":    uc.Viewer().HasAccess(),
		"AllProviders": wearables.Providers(),
	})
}
