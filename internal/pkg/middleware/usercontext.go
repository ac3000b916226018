package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fromwithin/fromwithin/app/models"
	"github.com/fromwithin/fromwithin/internal/pkg/database"
	"github.com/fromwithin/fromwithin/internal/pkg/entitlements"
	"github.com/fromwithin/fromwithin/internal/pkg/session"
	"github.com/fromwithin/fromwithin/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// It resolves the three entitlement facts (authenticated, wearable linked,
// subscription status) session-first with a DB fallback, so the access gate
// downstream never touches storage itself.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Avoid interfering with Goth/Fiber session handling on OAuth routes.
	// Goth uses its own fiber session store and relies on per-request locals.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// On error: treat as anonymous user
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		return c.Next()
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)

	userCtx := usercontext.UserContext{
		UserID:             userID.(uint),
		Username:           username,
		IsLoggedIn:         true,
		WearableConnected:  resolveWearableConnected(c, userID.(uint)),
		SubscriptionStatus: resolveSubscriptionStatus(c, userID.(uint)),
	}
	c.Locals(usercontext.KeyUserContext, userCtx)

	return c.Next()
}

// resolveWearableConnected checks the session cache first and falls back to
// counting credential rows. The flag is only cached once a wearable is
// linked; a "not connected" answer is re-checked every request so a fresh
// link takes effect immediately.
func resolveWearableConnected(c *fiber.Ctx, userID uint) bool {
	if session.GetSessionValue(c, usercontext.KeyWearableConnected) == "1" {
		return true
	}

	db := database.GetDB()
	if db == nil {
		return false
	}
	connected, err := models.HasWearableConnection(db, userID)
	if err != nil {
		log.Printf("wearable lookup failed for user %d: %v", userID, err)
		return false
	}
	if connected {
		_ = session.SetSessionValue(c, usercontext.KeyWearableConnected, "1")
	}
	return connected
}

// resolveSubscriptionStatus prefers the session value written by the
// billing flow and falls back to the newest subscription row. Only
// entitling statuses are cached; anything else is re-checked so a webhook
// landing between two requests takes effect without waiting for session
// expiry.
func resolveSubscriptionStatus(c *fiber.Ctx, userID uint) string {
	if cached := session.GetSessionValue(c, usercontext.KeySubscriptionStatus); cached != "" {
		return entitlements.NormalizeStatus(cached)
	}

	db := database.GetDB()
	if db == nil {
		return entitlements.StatusNone
	}
	status, err := models.LatestSubscriptionStatus(db, userID)
	if err != nil {
		log.Printf("subscription lookup failed for user %d: %v", userID, err)
		return entitlements.StatusNone
	}
	status = entitlements.NormalizeStatus(status)
	if status == entitlements.StatusTrialing || status == entitlements.StatusActive {
		_ = session.SetSessionValue(c, usercontext.KeySubscriptionStatus, status)
	}
	return status
}
