package entitlements

import "strings"

// Subscription statuses as mirrored from the billing provider.
const (
	StatusNone       = "none"
	StatusTrialing   = "trialing"
	StatusActive     = "active"
	StatusCanceled   = "canceled"
	StatusIncomplete = "incomplete"
)

// Viewer carries the per-request facts the access gate evaluates.
// It is derived fresh for every request and never cached beyond it.
type Viewer struct {
	UserID             uint
	Authenticated      bool
	WearableConnected  bool
	SubscriptionStatus string
}

// NormalizeStatus maps raw provider status strings to the known set.
// Empty or unknown values collapse to StatusNone.
func NormalizeStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusTrialing:
		return StatusTrialing
	case StatusActive:
		return StatusActive
	case StatusCanceled:
		return StatusCanceled
	case StatusIncomplete:
		return StatusIncomplete
	default:
		return StatusNone
	}
}

// HasAccess reports whether the subscription grants full app access.
func (v Viewer) HasAccess() bool {
	s := NormalizeStatus(v.SubscriptionStatus)
	return s == StatusTrialing || s == StatusActive
}

// NeedsWearable reports whether the viewer still has to link a wearable.
func (v Viewer) NeedsWearable() bool {
	return !v.WearableConnected
}

// Entitled reports whether the viewer clears both onboarding requirements.
func (v Viewer) Entitled() bool {
	return v.WearableConnected && v.HasAccess()
}
