package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flashcase/flashcase/internal/auth"
	"github.com/flashcase/flashcase/internal/config"
	"github.com/flashcase/flashcase/internal/moderation"
	"github.com/flashcase/flashcase/internal/scheduler"
	"github.com/flashcase/flashcase/internal/service"
	"github.com/flashcase/flashcase/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		ListenAddr:          ":0",
		CORSOrigins:         []string{"http://localhost:3000"},
		JWTSecret:           "test-secret",
		AccessTokenTTL:      time.Hour,
		DefaultSessionLimit: 20,
		RateLimitEnabled:    false,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "server_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := service.New(store, scheduler.NewSM2(), moderation.NewFilter(), zap.NewNop())
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	return New(cfg, svc, nil, tokens, zap.NewNop())
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), into))
}

func signUp(t *testing.T, s *Server, username string) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    username + "@example.com",
		"username": username,
		"password": "hunter2-long",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": "hunter2-long",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func createDeck(t *testing.T, s *Server, token, name string, public bool) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/v1/decks", token, gin.H{
		"name":      name,
		"is_public": public,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var deck storage.Deck
	decode(t, w, &deck)
	return deck.ID
}

func createCard(t *testing.T, s *Server, token, deckID, front, back string) string {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/v1/decks/"+deckID+"/cards", token, gin.H{
		"front": front,
		"back":  back,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var card storage.Card
	decode(t, w, &card)
	return card.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testConfig())
	w := doJSON(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := signUp(t, s, "alice")

	w := doJSON(t, s, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user storage.User
	decode(t, w, &user)
	assert.Equal(t, "alice", user.Username)

	// Hashed password never leaves the API.
	assert.NotContains(t, w.Body.String(), "hashed_password")

	w = doJSON(t, s, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, s, http.MethodGet, "/api/v1/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newTestServer(t, testConfig())
	signUp(t, s, "alice")

	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "not-an-email",
		"username": "alice",
		"password": "hunter2-long",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeckLifecycle(t *testing.T) {
	s := newTestServer(t, testConfig())
	alice := signUp(t, s, "alice")
	bob := signUp(t, s, "bob")

	deckID := createDeck(t, s, alice, "Biology", false)

	w := doJSON(t, s, http.MethodGet, "/api/v1/decks/"+deckID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, s, http.MethodGet, "/api/v1/decks/"+deckID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, s, http.MethodDelete, "/api/v1/decks/"+deckID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, s, http.MethodDelete, "/api/v1/decks/"+deckID, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, s, http.MethodGet, "/api/v1/decks/"+deckID, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDeckRejectsProfanity(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := signUp(t, s, "alice")

	w := doJSON(t, s, http.MethodPost, "/api/v1/decks", token, gin.H{
		"name": "my shitty deck",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudyFlow(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := signUp(t, s, "alice")
	deckID := createDeck(t, s, token, "Biology", false)
	cardID := createCard(t, s, token, deckID, "ATP", "adenosine triphosphate")
	createCard(t, s, token, deckID, "DNA", "deoxyribonucleic acid")

	// Both cards are new, so both are due.
	w := doJSON(t, s, http.MethodGet, "/api/v1/study/session/"+deckID, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session struct {
		Count int `json:"count"`
	}
	decode(t, w, &session)
	assert.Equal(t, 2, session.Count)

	// A passing review pushes the card a day out.
	w = doJSON(t, s, http.MethodPost, "/api/v1/study/review/"+cardID, token, gin.H{"quality": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var log storage.StudyLog
	decode(t, w, &log)
	assert.Equal(t, 1, log.Interval)
	assert.Equal(t, 1, log.Repetitions)

	w = doJSON(t, s, http.MethodGet, "/api/v1/study/session/"+deckID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &session)
	assert.Equal(t, 1, session.Count)

	w = doJSON(t, s, http.MethodGet, "/api/v1/study/state/"+cardID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state struct {
		State *scheduler.State `json:"state"`
	}
	decode(t, w, &state)
	require.NotNil(t, state.State)
	assert.Equal(t, 1, state.State.Repetitions)
}

func TestSubmitReviewValidation(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := signUp(t, s, "alice")
	deckID := createDeck(t, s, token, "Biology", false)
	cardID := createCard(t, s, token, deckID, "front", "back")

	w := doJSON(t, s, http.MethodPost, "/api/v1/study/review/"+cardID, token, gin.H{"quality": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Zero is a valid rating, not a missing field.
	w = doJSON(t, s, http.MethodPost, "/api/v1/study/review/"+cardID, token, gin.H{"quality": 0})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, s, http.MethodPost, "/api/v1/study/review/no-such-card", token, gin.H{"quality": 4})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudySessionLimitQuery(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := signUp(t, s, "alice")
	deckID := createDeck(t, s, token, "Biology", false)
	for i := 0; i < 4; i++ {
		createCard(t, s, token, deckID, fmt.Sprintf("front-%d", i), "back")
	}

	w := doJSON(t, s, http.MethodGet, "/api/v1/study/session/"+deckID+"?limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var session struct {
		Count int `json:"count"`
	}
	decode(t, w, &session)
	assert.Equal(t, 2, session.Count)

	w = doJSON(t, s, http.MethodGet, "/api/v1/study/session/"+deckID+"?limit=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, s, http.MethodGet, "/api/v1/study/session/"+deckID+"?limit=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReports(t *testing.T) {
	s := newTestServer(t, testConfig())
	alice := signUp(t, s, "alice")
	deckID := createDeck(t, s, alice, "Public Deck", true)

	w := doJSON(t, s, http.MethodPost, "/api/v1/reports", alice, gin.H{
		"report_type": "deck",
		"content_id":  deckID,
		"reason":      "spam",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, s, http.MethodPost, "/api/v1/reports", alice, gin.H{
		"report_type": "deck",
		"content_id":  deckID,
		"reason":      "not-a-reason",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/reports?status=pending", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reports []storage.Report
	decode(t, w, &reports)
	assert.Len(t, reports, 1)
}

func TestAIEndpointsWithoutClient(t *testing.T) {
	s := newTestServer(t, testConfig())
	token := signUp(t, s, "alice")

	w := doJSON(t, s, http.MethodPost, "/api/v1/ai/rewrite", token, gin.H{"text": "mitochondria"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitPerMinute = 2
	s := newTestServer(t, cfg)

	first := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "a", "password": "b"})
	second := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "a", "password": "b"})
	third := doJSON(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "a", "password": "b"})

	assert.NotEqual(t, http.StatusTooManyRequests, first.Code)
	assert.NotEqual(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
}
