package controllers

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/fromwithin/fromwithin/app/repository"
	"github.com/fromwithin/fromwithin/internal/pkg/database"
	"github.com/fromwithin/fromwithin/internal/pkg/mentor"
	"github.com/fromwithin/fromwithin/internal/pkg/usercontext"
)

var (
	mentorOnce   sync.Once
	mentorClient *mentor.Client
)

func getMentorClient() *mentor.Client {
	mentorOnce.Do(func() {
		mentorClient = mentor.NewClientFromEnv(context.Background())
	})
	return mentorClient
}

type mentorChatRequest struct {
	Message string `json:"message"`
}

// HandleAPIMentorChat answers one mentor message. The mentor always
// answers; model failures degrade to a static reply, not an error.
func HandleAPIMentorChat(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	var req mentorChatRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return jsonError(c, fiber.StatusBadRequest, "message is required")
	}

	reply := getMentorClient().Reply(c.UserContext(), req.Message)
	return c.JSON(fiber.Map{
		"reply": reply,
	})
}

// HandleAPIEnergyInsight summarizes the user's recent chakra entries.
func HandleAPIEnergyInsight(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == 0 {
		return jsonError(c, fiber.StatusUnauthorized, "login required")
	}

	entries, err := repository.NewChakraLogRepository(database.GetDB()).ListByUser(userID, 14)
	if err != nil {
		log.Printf("loading chakra entries for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not load entries")
	}

	insight := getMentorClient().Insight(c.UserContext(), entries)
	return c.JSON(fiber.Map{
		"insight": insight,
	})
}
