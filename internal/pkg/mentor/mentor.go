package mentor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/fromwithin/fromwithin/app/models"
	"github.com/fromwithin/fromwithin/internal/pkg/env"
)

const DefaultModel = "gemini-2.0-flash"

const requestTimeout = 20 * time.Second

const systemPreamble = "You are a calm, grounded wellness mentor. " +
	"Answer in at most three short paragraphs, be encouraging and concrete, " +
	"and never give medical advice."

// fallbackReplies are served whenever the model is unreachable or not
// configured. The mentor screen must always answer.
var fallbackReplies = []string{
	"Take a slow breath and notice where your attention goes. Whatever you wrote down, start with the smallest step you can take today.",
	"Energy follows attention. Pick one thing from your day that felt good and give it five more minutes tomorrow.",
	"Rest counts as practice too. If today felt heavy, let a short walk or an early night be the whole plan.",
}

const fallbackInsight = "Your recent entries show you are paying attention, and that is the practice. Keep logging and patterns will surface on their own."

// Client answers mentor chat messages through Gemini. A client without a
// configured API key still works and serves the static fallbacks.
type Client struct {
	genai *genai.Client
	model string
}

// NewClientFromEnv builds a mentor client from GEMINI_API_KEY. A missing key
// is not an error; the client degrades to fallback replies.
func NewClientFromEnv(ctx context.Context) *Client {
	c := &Client{model: env.GetEnv("GEMINI_MODEL", DefaultModel)}

	apiKey := env.GetEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		log.Println("GEMINI_API_KEY not set, mentor runs on fallback replies")
		return c
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("mentor client init failed, falling back to static replies: %v", err)
		return c
	}
	c.genai = client
	return c
}

// Reply answers a single chat message. Any failure on the model side turns
// into a fallback reply, never an error to the caller.
func (c *Client) Reply(ctx context.Context, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return fallbackFor(message)
	}
	if c.genai == nil {
		return fallbackFor(message)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	prompt := systemPreamble + "\n\nUser message:\n" + message
	text, err := c.generate(ctx, prompt)
	if err != nil {
		log.Printf("mentor generation failed: %v", err)
		return fallbackFor(message)
	}
	return text
}

// Insight summarizes recent chakra entries into one short reflection.
func (c *Client) Insight(ctx context.Context, entries []models.ChakraLog) string {
	if c.genai == nil || len(entries) == 0 {
		return fallbackInsight
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	text, err := c.generate(ctx, buildInsightPrompt(entries))
	if err != nil {
		log.Printf("mentor insight failed: %v", err)
		return fallbackInsight
	}
	return text
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty response text")
	}
	return text, nil
}

// buildInsightPrompt condenses log entries into a compact prompt. Notes are
// left out; they may contain anything, and intensity trends carry the signal.
func buildInsightPrompt(entries []models.ChakraLog) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble)
	sb.WriteString("\n\nThe user logged the following chakra energy levels (1-10), newest first:\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "- %s: %d (%s)\n", e.Chakra, e.Intensity, e.LoggedAt.Format("2006-01-02"))
	}
	sb.WriteString("\nOffer one short reflection on the pattern you see.")
	return sb.String()
}

// fallbackFor picks a deterministic reply so repeating the same message
// does not shuffle answers.
func fallbackFor(message string) string {
	return fallbackReplies[len(message)%len(fallbackReplies)]
}
