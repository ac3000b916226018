package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fromwithin/fromwithin/internal/pkg/entitlements"
)

// UserContext represents the complete user context for a request
type UserContext struct {
	UserID             uint   `json:"user_id"`
	Username           string `json:"username"`
	IsLoggedIn         bool   `json:"is_logged_in"`
	WearableConnected  bool   `json:"wearable_connected"`
	SubscriptionStatus string `json:"subscription_status"`
}

// Viewer converts the request context into the access-gate facts.
func (u UserContext) Viewer() entitlements.Viewer {
	return entitlements.Viewer{
		UserID:             u.UserID,
		Authenticated:      u.IsLoggedIn,
		WearableConnected:  u.WearableConnected,
		SubscriptionStatus: entitlements.NormalizeStatus(u.SubscriptionStatus),
	}
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(KeyUserContext); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}

// GetUsername returns the current user's username, or empty string if not logged in
func GetUsername(c *fiber.Ctx) string {
	return GetUserContext(c).Username
}
