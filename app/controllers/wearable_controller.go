package controllers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fromwithin/fromwithin/app/repository"
	"github.com/fromwithin/fromwithin/internal/pkg/constants"
	"github.com/fromwithin/fromwithin/internal/pkg/database"
	"github.com/fromwithin/fromwithin/internal/pkg/session"
	"github.com/fromwithin/fromwithin/internal/pkg/usercontext"
	"github.com/fromwithin/fromwithin/internal/pkg/wearables"
)

// wearableCallbackTimeout bounds the token exchange plus persistence once
// the provider has redirected back.
const wearableCallbackTimeout = 20 * time.Second

// HandleWearableAuth sends the user to the provider consent page.
func HandleWearableAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	cfg, status, errMsg := wearableConfig(c)
	if errMsg != "" {
		return jsonError(c, status, errMsg)
	}

	authURL, err := cfg.AuthCodeURL()
	if err != nil {
		log.Printf("wearable authorize URL for %s is invalid: %v", cfg.Provider, err)
		return jsonError(c, fiber.StatusInternalServerError, "wearable provider is not configured")
	}
	return c.Redirect(authURL, fiber.StatusSeeOther)
}

// HandleWearableCallback finishes the link flow. Whatever happens, the
// user ends up on the insights page with the outcome in the query string;
// only configuration errors surface as HTTP errors.
func HandleWearableCallback(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return c.Redirect(constants.WelcomeRoute, fiber.StatusSeeOther)
	}

	cfg, status, errMsg := wearableConfig(c)
	if errMsg != "" {
		return jsonError(c, status, errMsg)
	}

	in := wearables.CallbackInput{
		Code:          c.Query("code"),
		ProviderError: c.Query("error"),
	}

	// The exchange must finish even if the browser drops the connection,
	// so it runs on its own deadline instead of the request context.
	ctx, cancel := context.WithTimeout(context.Background(), wearableCallbackTimeout)
	defer cancel()

	store := repository.NewWearableRepository(database.GetDB())
	attempt := wearables.NewProtocol(store).Run(ctx, cfg, userID, in)

	if attempt.Succeeded() {
		_ = session.SetSessionValue(c, usercontext.KeyWearableConnected, "1")
	}

	return c.Redirect(attempt.RedirectURL(constants.InsightsRoute), fiber.StatusSeeOther)
}

// HandleWearableStatus lists the user's linked providers.
func HandleWearableStatus(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	conns, err := repository.NewWearableRepository(database.GetDB()).ListByUser(userID)
	if err != nil {
		log.Printf("listing wearable connections for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not load connections")
	}

	out := make([]fiber.Map, 0, len(conns))
	for _, conn := range conns {
		out = append(out, fiber.Map{
			"provider":      conn.Provider,
			"source_device": conn.SourceDevice,
			"scopes":        conn.ScopeList(),
			"connected_at":  conn.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{
		"connections": out,
	})
}

// HandleWearableDisconnect removes a linked provider. The session flag is
// only cleared when no connection of any provider remains.
func HandleWearableDisconnect(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	provider, err := wearables.ParseProvider(c.Params("provider"))
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "unknown wearable provider")
	}

	repo := repository.NewWearableRepository(database.GetDB())
	if err := repo.Delete(userID, string(provider)); err != nil {
		log.Printf("disconnecting %s for user %d failed: %v", provider, userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not disconnect")
	}

	if has, err := repo.HasAnyForUser(userID); err == nil && !has {
		_ = session.DeleteSessionValue(c, usercontext.KeyWearableConnected)
	}

	return c.JSON(fiber.Map{
		"disconnected": string(provider),
	})
}

// wearableConfig resolves and validates the provider named in the path.
// A missing client id or secret is a deployment error and must fail
// loudly here, never turn into a provider redirect.
func wearableConfig(c *fiber.Ctx) (wearables.ProviderConfig, int, string) {
	provider, err := wearables.ParseProvider(c.Params("provider"))
	if err != nil {
		return wearables.ProviderConfig{}, fiber.StatusNotFound, "unknown wearable provider"
	}

	cfg, err := wearables.ConfigFromEnv(provider)
	if err != nil {
		return wearables.ProviderConfig{}, fiber.StatusNotFound, "unknown wearable provider"
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("wearable request rejected: %v", err)
		return wearables.ProviderConfig{}, fiber.StatusInternalServerError, "wearable provider is not configured"
	}
	return cfg, 0, ""
}
