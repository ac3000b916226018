package mentor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fromwithin/fromwithin/app/models"
)

func TestReplyWithoutModelServesFallback(t *testing.T) {
	c := &Client{model: DefaultModel}

	reply := c.Reply(context.Background(), "I feel scattered today")
	assert.NotEmpty(t, reply)
	assert.Contains(t, fallbackReplies, reply)

	// Same message, same fallback.
	assert.Equal(t, reply, c.Reply(context.Background(), "I feel scattered today"))
}

func TestReplyEmptyMessageServesFallback(t *testing.T) {
	c := &Client{model: DefaultModel}

	reply := c.Reply(context.Background(), "   ")
	assert.Contains(t, fallbackReplies, reply)
}

func TestInsightWithoutEntriesServesFallback(t *testing.T) {
	c := &Client{model: DefaultModel}

	assert.Equal(t, fallbackInsight, c.Insight(context.Background(), nil))
}

func TestBuildInsightPrompt(t *testing.T) {
	entries := []models.ChakraLog{
		{Chakra: "heart", Intensity: 7, LoggedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Note: "private note"},
		{Chakra: "root", Intensity: 3, LoggedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	prompt := buildInsightPrompt(entries)
	assert.True(t, strings.Contains(prompt, "heart: 7"))
	assert.True(t, strings.Contains(prompt, "root: 3"))
	assert.True(t, strings.Contains(prompt, "2025-03-02"))
	// Notes never leave the database.
	assert.False(t, strings.Contains(prompt, "private note"))
}
