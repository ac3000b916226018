package billing

import (
	"errors"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v78"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"

	"github.com/fromwithin/fromwithin/internal/pkg/env"
)

// CheckoutConfig carries everything needed to start a Stripe subscription
// checkout. The secret key is injected, never read from a global.
type CheckoutConfig struct {
	SecretKey  string
	PriceID    string
	SuccessURL string
	CancelURL  string
	TrialDays  int64
}

// CheckoutConfigFromEnv builds the checkout configuration from environment
// variables. Missing values surface through Validate, not here.
func CheckoutConfigFromEnv() CheckoutConfig {
	trialDays := int64(7)
	if raw := env.GetEnv("STRIPE_TRIAL_DAYS", ""); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed >= 0 {
			trialDays = parsed
		}
	}

	return CheckoutConfig{
		SecretKey:  env.GetEnv("STRIPE_SECRET_KEY", ""),
		PriceID:    env.GetEnv("STRIPE_PRICE_ID", ""),
		SuccessURL: env.GetEnv("STRIPE_SUCCESS_URL", "/home?checkout=success"),
		CancelURL:  env.GetEnv("STRIPE_CANCEL_URL", "/onboarding?checkout=canceled"),
		TrialDays:  trialDays,
	}
}

// Validate reports whether the configuration can create checkout sessions.
func (cfg CheckoutConfig) Validate() error {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return errors.New("stripe secret key is not configured")
	}
	if strings.TrimSpace(cfg.PriceID) == "" {
		return errors.New("stripe price id is not configured")
	}
	return nil
}

// CreateCheckoutSession starts a hosted subscription checkout for the user
// and returns the payment page URL. The user ID travels as the client
// reference so the completion webhook can attribute the subscription.
func CreateCheckoutSession(cfg CheckoutConfig, userID uint, email string) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if userID == 0 {
		return "", errors.New("user id is required")
	}

	stripe.Key = cfg.SecretKey

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(cfg.SuccessURL),
		CancelURL:         stripe.String(cfg.CancelURL),
		ClientReferenceID: stripe.String(strconv.FormatUint(uint64(userID), 10)),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	if cfg.TrialDays > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(cfg.TrialDays),
		}
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}
