package controllers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fromwithin/fromwithin/app/models"
	"github.com/fromwithin/fromwithin/app/repository"
	"github.com/fromwithin/fromwithin/internal/pkg/database"
	"github.com/fromwithin/fromwithin/internal/pkg/usercontext"
)

type chakraLogRequest struct {
	Chakra    string `json:"chakra"`
	Intensity int    `json:"intensity"`
	Note      string `json:"note"`
	LoggedAt  string `json:"logged_at"`
}

// HandleAPIChakraCreate stores one self-reported energy entry.
func HandleAPIChakraCreate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	var req chakraLogRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	loggedAt := time.Now()
	if req.LoggedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.LoggedAt)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "logged_at must be RFC3339")
		}
		loggedAt = parsed
	}

	entry := &models.ChakraLog{
		UserID:    userID,
		Chakra:    strings.ToLower(strings.TrimSpace(req.Chakra)),
		Intensity: req.Intensity,
		Note:      req.Note,
		LoggedAt:  loggedAt,
	}
	if err := entry.Validate(); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	if err := repository.NewChakraLogRepository(database.GetDB()).Create(entry); err != nil {
		log.Printf("saving chakra entry for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not save entry")
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleAPIChakraList returns the user's entries, newest first.
func HandleAPIChakraList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	entries, err := repository.NewChakraLogRepository(database.GetDB()).ListByUser(userID, c.QueryInt("limit", 50))
	if err != nil {
		log.Printf("loading chakra entries for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not load entries")
	}

	return c.JSON(fiber.Map{
		"entries": entries,
	})
}
