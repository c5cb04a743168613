package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moco-web/config"
	"moco-web/internal/backend"
	"moco-web/internal/gate"
)

func newImagesApp(t *testing.T, backendHandler http.HandlerFunc) *fiber.App {
	t.Helper()

	srv := httptest.NewServer(backendHandler)
	t.Cleanup(srv.Close)

	backendClient := backend.NewClient(&config.BackendConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5,
	})

	handler := NewImagesHandler(backendClient, testAuthService(t, backendClient), gate.New(backendClient))

	app := fiber.New()
	app.Get("/api/image/check-upload-limit", handler.CheckUploadLimit)
	app.Get("/api/image/get-images-by-user", handler.ImagesByUser)
	app.Get("/api/upload-status", handler.UploadStatus)
	return app
}

func TestCheckUploadLimitRequiresEmail(t *testing.T) {
	app := newImagesApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/image/check-upload-limit", nil))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, 400, env.StatusCode)
	assert.Equal(t, []string{"Email parameter is required."}, env.Errors)
}

func TestCheckUploadLimitAlwaysRespondsOK(t *testing.T) {
	// The backend answers 429 on the transport level; the proxy still
	// responds 200 and forwards the envelope.
	app := newImagesApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(backend.Fail(429, "Daily upload limit reached"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/image/check-upload-limit?email=user@example.com", nil))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, 429, env.StatusCode)
}

func TestCheckUploadLimitBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	backendClient := backend.NewClient(&config.BackendConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 1,
	})
	handler := NewImagesHandler(backendClient, testAuthService(t, backendClient), gate.New(backendClient))

	app := fiber.New()
	app.Get("/api/image/check-upload-limit", handler.CheckUploadLimit)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/image/check-upload-limit?email=user@example.com", nil), 5000)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, 500, env.StatusCode)
}

func TestImagesByUserSplitsResult(t *testing.T) {
	app := newImagesApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user@example.com", r.URL.Query().Get("email"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(backend.OK("ok", "https://a, https://b"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/image/get-images-by-user", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, "user@example.com"))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success)

	result, ok := env.Result.([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"https://a", "https://b"}, result)
}

func TestImagesByUserWithoutSession(t *testing.T) {
	app := newImagesApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/image/get-images-by-user", nil))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, 401, env.StatusCode)
}

func TestUploadStatusStates(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       string
	}{
		{"allowed", 200, "allowed"},
		{"limit reached", 429, "limit-reached"},
		{"unknown user", 404, "not-found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newImagesApp(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(backend.Envelope{
					Success:    tt.statusCode == 200,
					StatusCode: tt.statusCode,
				})
			})

			req := httptest.NewRequest(http.MethodGet, "/api/upload-status", nil)
			req.Header.Set("Authorization", "Bearer "+sessionToken(t, "user@example.com"))

			resp, err := app.Test(req)
			require.NoError(t, err)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.want, body["status"])
		})
	}
}

func TestUploadStatusWithoutSession(t *testing.T) {
	app := newImagesApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("backend must not be called")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/upload-status", nil))
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not-found", body["status"])
}
