// Package ai talks to an OpenAI-compatible chat completion endpoint to
// rewrite, autocomplete and generate flashcards.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("ai client not configured")

// GeneratedCard is one front/back pair produced by the model.
type GeneratedCard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Client wraps a chat completion API for card assistance features.
type Client struct {
	api    *openai.Client
	cfg    Config
	logger *zap.Logger
}

// Config holds the connection settings and per-operation tuning for the
// completion endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Temperature applies to every request.
	Temperature float64
	// GenerateMaxTokens caps card generation; RewriteMaxTokens and
	// AutocompleteMaxTokens cap the single-text operations.
	GenerateMaxTokens     int
	RewriteMaxTokens      int
	AutocompleteMaxTokens int
}

// NewClient builds a Client. A nil Client is returned when no API key is
// configured; callers should check with Enabled before use. Non-positive
// token caps fall back to built-in defaults.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.GenerateMaxTokens <= 0 {
		cfg.GenerateMaxTokens = 1500
	}
	if cfg.RewriteMaxTokens <= 0 {
		cfg.RewriteMaxTokens = 1000
	}
	if cfg.AutocompleteMaxTokens <= 0 {
		cfg.AutocompleteMaxTokens = 500
	}
	return &Client{
		api:    openai.NewClientWithConfig(apiCfg),
		cfg:    cfg,
		logger: logger,
	}
}

// Enabled reports whether the client can serve requests.
func (c *Client) Enabled() bool {
	return c != nil
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: float32(c.cfg.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// RewriteCard rephrases one side of a card for clarity without changing
// its meaning.
func (c *Client) RewriteCard(ctx context.Context, text string) (string, error) {
	const system = "You rewrite flashcard text to be clearer and more concise. " +
		"Preserve the meaning. Reply with only the rewritten text."
	out, err := c.complete(ctx, system, text, c.cfg.RewriteMaxTokens)
	if err != nil {
		return "", err
	}
	c.logger.Debug("rewrote card text", zap.Int("input_len", len(text)), zap.Int("output_len", len(out)))
	return out, nil
}

// AutocompleteCard drafts the back of a card from its front.
func (c *Client) AutocompleteCard(ctx context.Context, front string) (string, error) {
	const system = "You complete flashcards. Given the front of a card, reply " +
		"with only a concise, accurate back."
	return c.complete(ctx, system, front, c.cfg.AutocompleteMaxTokens)
}

// GenerateCards produces up to count front/back pairs about a topic.
func (c *Client) GenerateCards(ctx context.Context, topic string, count int) ([]GeneratedCard, error) {
	if count <= 0 {
		count = 5
	}
	system := fmt.Sprintf("You create study flashcards. Reply with a JSON array "+
		"of at most %d objects, each with \"front\" and \"back\" string fields. "+
		"Reply with only the JSON array.", count)
	out, err := c.complete(ctx, system, topic, c.cfg.GenerateMaxTokens)
	if err != nil {
		return nil, err
	}

	// Models sometimes wrap JSON in a code fence.
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")

	var cards []GeneratedCard
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &cards); err != nil {
		return nil, fmt.Errorf("failed to parse generated cards: %w", err)
	}
	if len(cards) > count {
		cards = cards[:count]
	}
	return cards, nil
}
