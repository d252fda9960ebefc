package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEndpoint captures chat completion requests and replies with content.
func fakeEndpoint(t *testing.T, content string, captured *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: content,
				}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newFakeClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client := NewClient(Config{
		APIKey:                "test-key",
		BaseURL:               baseURL,
		Model:                 "grok-4-fast",
		Temperature:           0.4,
		GenerateMaxTokens:     1500,
		RewriteMaxTokens:      1000,
		AutocompleteMaxTokens: 500,
	}, zap.NewNop())
	require.True(t, client.Enabled())
	return client
}

func TestRewriteUsesConfiguredCap(t *testing.T) {
	var captured openai.ChatCompletionRequest
	srv := fakeEndpoint(t, "rewritten", &captured)
	defer srv.Close()

	client := newFakeClient(t, srv.URL)
	out, err := client.RewriteCard(context.Background(), "the powerhouse of the cell")
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)

	assert.Equal(t, "grok-4-fast", captured.Model)
	assert.Equal(t, 1000, captured.MaxTokens)
	assert.InDelta(t, 0.4, float64(captured.Temperature), 1e-6)
}

func TestAutocompleteUsesConfiguredCap(t *testing.T) {
	var captured openai.ChatCompletionRequest
	srv := fakeEndpoint(t, "a back", &captured)
	defer srv.Close()

	client := newFakeClient(t, srv.URL)
	_, err := client.AutocompleteCard(context.Background(), "mitochondria")
	require.NoError(t, err)
	assert.Equal(t, 500, captured.MaxTokens)
}

func TestGenerateCardsUsesConfiguredCap(t *testing.T) {
	var captured openai.ChatCompletionRequest
	srv := fakeEndpoint(t, `[{"front":"f","back":"b"}]`, &captured)
	defer srv.Close()

	client := newFakeClient(t, srv.URL)
	cards, err := client.GenerateCards(context.Background(), "cell biology", 3)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 1500, captured.MaxTokens)
}

func TestGenerateCardsStripsCodeFence(t *testing.T) {
	var captured openai.ChatCompletionRequest
	srv := fakeEndpoint(t, "```json\n[{\"front\":\"f\",\"back\":\"b\"}]\n```", &captured)
	defer srv.Close()

	client := newFakeClient(t, srv.URL)
	cards, err := client.GenerateCards(context.Background(), "cell biology", 3)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "f", cards[0].Front)
}

func TestNewClientDefaultsCaps(t *testing.T) {
	var captured openai.ChatCompletionRequest
	srv := fakeEndpoint(t, "text", &captured)
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "grok-4-fast"}, zap.NewNop())
	_, err := client.RewriteCard(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 1000, captured.MaxTokens)
}

func TestNilClientIsDisabled(t *testing.T) {
	client := NewClient(Config{}, zap.NewNop())
	assert.False(t, client.Enabled())

	_, err := client.RewriteCard(context.Background(), "text")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
