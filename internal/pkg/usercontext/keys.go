package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserContext = "USER_CONTEXT"

	AuthKey     = "authenticated"
	KeyUserID   = "user_id"
	KeyUsername = "username"

	// Session caches for the entitlement facts; "1"/"0" for the flag,
	// a normalized status string for the subscription.
	KeyWearableConnected  = "wearable_connected"
	KeySubscriptionStatus = "subscription_status"
)
