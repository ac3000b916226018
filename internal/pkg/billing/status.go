package billing

import (
	"strings"

	"github.com/fromwithin/fromwithin/app/models"
)

// mapStripeStatus folds Stripe's subscription status set onto the internal
// one. Everything that is neither clearly running nor clearly over lands on
// incomplete, which does not entitle.
func mapStripeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "trialing":
		return models.BillingStatusTrialing
	case "active":
		return models.BillingStatusActive
	case "canceled", "incomplete_expired", "unpaid":
		return models.BillingStatusCanceled
	default:
		return models.BillingStatusIncomplete
	}
}

func isEntitlingStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case models.BillingStatusTrialing, models.BillingStatusActive:
		return true
	default:
		return false
	}
}
