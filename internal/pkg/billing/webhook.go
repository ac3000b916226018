package billing

import (
	"errors"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/fromwithin/fromwithin/internal/pkg/env"
)

// WebhookSecretFromEnv returns the configured webhook signing secret.
func WebhookSecretFromEnv() string {
	return env.GetEnv("STRIPE_WEBHOOK_SECRET", "")
}

// ParseWebhookEvent verifies the Stripe-Signature header against the signing
// secret and decodes the event. Unverifiable payloads never reach handling.
func ParseWebhookEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	if secret == "" {
		return stripe.Event{}, errors.New("stripe webhook secret is not configured")
	}
	return webhook.ConstructEvent(payload, sigHeader, secret)
}
