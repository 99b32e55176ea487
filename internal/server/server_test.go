package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-assistant-backend/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "8080",
		AllowedOrigin:  "*",
		OpenAIAPIKey:   "sk-test",
		Model:          "gpt-4o-mini",
		Temperature:    0.7,
		SearchBackend:  "mock",
		IntentSpecPath: "does/not/exist.yaml",
	}
}

func TestNewServerRequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIAPIKey = ""
	_, err := NewServer(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestHealthEndpoint(t *testing.T) {
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	defer s.Close()

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "mock", body["search_backend"])
	assert.Equal(t, false, body["database"])
}

func TestChatRejectsBadInput(t *testing.T) {
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	defer s.Close()

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "  "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVoiceRequiresFile(t *testing.T) {
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	defer s.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/voice", strings.NewReader("plain body"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMCPServersListing(t *testing.T) {
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	defer s.Close()

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/mcp-servers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	search, ok := body["search_server"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mock", search["type"])
	assert.NotEmpty(t, search["tools"])
	assert.Contains(t, body, "booking_server")
	assert.Contains(t, body, "customer_server")
}

func TestConversationsUnavailableWithoutDatabase(t *testing.T) {
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	defer s.Close()

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/conversations", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/conversations/abc", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSessionCookieRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "s_123")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	sid, err := GetSessionCookie(req)
	require.NoError(t, err)
	assert.Equal(t, "s_123", sid)
}

func TestGetSessionIDFallbacks(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, getSessionID(req))

	req.Header.Set("X-Session-Id", "s_header")
	assert.Equal(t, "s_header", getSessionID(req))

	req = httptest.NewRequest(http.MethodGet, "/?sessionId=s_query", nil)
	assert.Equal(t, "s_query", getSessionID(req))
}
