package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/fromwithin/fromwithin/app/models"
	"github.com/fromwithin/fromwithin/internal/pkg/billing"
	"github.com/fromwithin/fromwithin/internal/pkg/constants"
	"github.com/fromwithin/fromwithin/internal/pkg/database"
	"github.com/fromwithin/fromwithin/internal/pkg/usercontext"
)

// HandleBillingCheckout starts a Stripe subscription checkout and sends the
// user to the hosted payment page.
func HandleBillingCheckout(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return c.Redirect(constants.WelcomeRoute, fiber.StatusSeeOther)
	}

	var user models.User
	if err := database.GetDB().First(&user, uc.UserID).Error; err != nil {
		log.Printf("loading user %d for checkout failed: %v", uc.UserID, err)
	}

	url, err := billing.CreateCheckoutSession(billing.CheckoutConfigFromEnv(), uc.UserID, user.Email)
	if err != nil {
		log.Printf("checkout session for user %d failed: %v", uc.UserID, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "Checkout is unavailable right now. Please try again in a moment.",
		}
		return flash.WithError(c, fm).Redirect(constants.OnboardingRoute)
	}

	return c.Redirect(url, fiber.StatusSeeOther)
}

// HandleStripeWebhook ingests subscription lifecycle events. The signature
// check happens before anything else touches the payload.
func HandleStripeWebhook(c *fiber.Ctx) error {
	event, err := billing.ParseWebhookEvent(c.Body(), c.Get("Stripe-Signature"), billing.WebhookSecretFromEnv())
	if err != nil {
		log.Printf("stripe webhook rejected: %v", err)
		return jsonError(c, fiber.StatusBadRequest, "invalid webhook")
	}

	if err := billing.NewServiceFromDB(database.GetDB()).ProcessWebhookEvent(event); err != nil {
		log.Printf("stripe webhook %s failed: %v", event.Type, err)
		return jsonError(c, fiber.StatusInternalServerError, "webhook processing failed")
	}

	return c.JSON(fiber.Map{
		"received": true,
	})
}
