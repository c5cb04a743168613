package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moco-web/config"
	"moco-web/internal/backend"
	"moco-web/internal/middleware"
)

func newAuthApp(t *testing.T) (*fiber.App, *httptest.Server) {
	t.Helper()

	// Backend upsert collaborator; sign-up must succeed regardless of
	// what it answers.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.OK("ok", nil))
	}))
	t.Cleanup(srv.Close)

	backendClient := backend.NewClient(&config.BackendConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5,
	})

	authService := testAuthService(t, backendClient)
	handler := NewAuthHandler(authService, testConfig())

	app := fiber.New()
	app.Post("/auth/register", handler.Register)
	app.Post("/auth/login", handler.Login)
	app.Post("/auth/logout", middleware.Protected(authService), handler.Logout)
	app.Get("/auth/me", middleware.Protected(authService), handler.GetMe)
	return app, srv
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any, token string) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRegisterValidationErrors(t *testing.T) {
	app, _ := newAuthApp(t)

	resp := postJSON(t, app, "/auth/register", map[string]string{
		"name":            "Test User",
		"email":           "user@example.com",
		"password":        "Abc123",
		"confirmPassword": "Abc124",
	}, "")

	assert.Equal(t, 400, resp.StatusCode)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Errors, 1)
	assert.Contains(t, body.Errors, "confirmPassword")
}

func TestRegisterLoginFlow(t *testing.T) {
	app, _ := newAuthApp(t)

	payload := map[string]string{
		"name":            "Test User",
		"email":           "user@example.com",
		"password":        "Abc123",
		"confirmPassword": "Abc123",
	}

	resp := postJSON(t, app, "/auth/register", payload, "")
	assert.Equal(t, 200, resp.StatusCode)

	var authResp AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&authResp))
	assert.NotEmpty(t, authResp.Token)
	assert.Equal(t, "user@example.com", authResp.User.Email)
	assert.Equal(t, "local", authResp.User.Provider)

	// Duplicate registration is rejected.
	resp = postJSON(t, app, "/auth/register", payload, "")
	assert.Equal(t, 400, resp.StatusCode)

	// Wrong password is rejected.
	resp = postJSON(t, app, "/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "Wrong123",
	}, "")
	assert.Equal(t, 401, resp.StatusCode)

	// Correct credentials sign in.
	resp = postJSON(t, app, "/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "Abc123",
	}, "")
	assert.Equal(t, 200, resp.StatusCode)
}

func TestLogoutRevokesSession(t *testing.T) {
	app, _ := newAuthApp(t)

	resp := postJSON(t, app, "/auth/register", map[string]string{
		"name":            "Test User",
		"email":           "user@example.com",
		"password":        "Abc123",
		"confirmPassword": "Abc123",
	}, "")
	require.Equal(t, 200, resp.StatusCode)

	var authResp AuthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&authResp))
	token := authResp.Token

	// Session works before logout.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, meResp.StatusCode)

	resp = postJSON(t, app, "/auth/logout", nil, token)
	assert.Equal(t, 200, resp.StatusCode)

	// The revoked token no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, meResp.StatusCode)
}
