package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog/log"

	"moco-web/internal/auth"
	"moco-web/internal/middleware"
)

// responseWriter is a minimal adapter that implements http.ResponseWriter
type responseWriter struct {
	ctx     *fiber.Ctx
	headers http.Header
	status  int
}

func newResponseWriter(c *fiber.Ctx) *responseWriter {
	return &responseWriter{
		ctx:     c,
		headers: make(http.Header),
		status:  200,
	}
}

func (r *responseWriter) Header() http.Header {
	return r.headers
}

func (r *responseWriter) Write(b []byte) (int, error) {
	r.ctx.Response().SetBody(b)
	return len(b), nil
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ctx.Status(statusCode)
}

// @Summary Begin OAuth authentication
// @Description Initiates the OAuth authentication process with the specified provider
// @Tags auth
// @Produce json
// @Param provider path string true "Authentication provider (google)"
// @Success 302 {string} string "Redirect to provider's auth page"
// @Failure 500 {object} ErrorResponse
// @Router /auth/{provider}/login [get]
func (h *AuthHandler) BeginAuth(c *fiber.Ctx) error {
	provider := c.Params("provider")
	log.Debug().Str("provider", provider).Msg("BeginAuth called with provider")

	// goth only speaks net/http, so build a proper http.Request from the
	// Fiber context.
	req := &http.Request{
		Method: "GET",
		URL: &url.URL{
			Scheme:   c.Protocol(),
			Host:     c.Hostname(),
			Path:     c.Path(),
			RawQuery: fmt.Sprintf("provider=%s", provider),
		},
		Header:     make(http.Header),
		RemoteAddr: c.IP(),
	}

	c.Request().Header.VisitAll(func(key, value []byte) {
		req.Header.Add(string(key), string(value))
	})

	w := newResponseWriter(c)
	req = req.WithContext(c.Context())

	authURL, err := gothic.GetAuthURL(w, req)
	if err != nil {
		log.Error().Err(err).Str("provider", provider).Msg("Failed to get auth URL")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to begin authentication",
		})
	}

	return c.Redirect(authURL)
}

// @Summary OAuth callback
// @Description Handles the OAuth callback from the authentication provider
// @Tags auth
// @Produce json
// @Param provider path string true "Authentication provider (google)"
// @Success 200 {object} AuthResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/{provider}/callback [get]
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	log.Debug().Str("provider", provider).Msg("Callback called with provider")

	w := newResponseWriter(c)
	req := &http.Request{
		Method: "GET",
		URL: &url.URL{
			Path:     fmt.Sprintf("/auth/%s/callback", provider),
			RawQuery: string(c.Request().URI().QueryString()),
		},
	}
	req = req.WithContext(c.Context())
	req.Header = make(http.Header)
	req.Header.Add("Accept", "application/json")

	gothUser, err := gothic.CompleteUserAuth(w, req)
	if err != nil {
		log.Error().Err(err).Str("provider", provider).Msg("Failed to complete auth")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to complete authentication",
		})
	}

	// Sign-in succeeds once the provider confirms identity; the backend
	// upsert inside CompleteOAuth is best-effort.
	user, err := h.authService.CompleteOAuth(c.Context(), gothUser)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create/update user")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to process user data",
		})
	}

	token, err := auth.GenerateSessionToken(user, h.config)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate session token")
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Failed to generate authentication token",
		})
	}

	h.setSessionCookie(c, token)

	// If a separate frontend is configured, hand the token over there.
	if h.config.Auth.FrontendURL != "" {
		frontendURL, err := url.Parse(h.config.Auth.FrontendURL)
		if err != nil {
			log.Error().Err(err).Msg("Invalid frontend URL in config")
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: "Invalid frontend configuration",
			})
		}

		frontendURL.Path = "/auth/callback"
		q := frontendURL.Query()
		q.Set("token", token)
		frontendURL.RawQuery = q.Encode()
		return c.Redirect(frontendURL.String())
	}

	return c.Redirect("/")
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	cookie := fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.config.Auth.SessionDays) * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: "Lax",
	}
	c.Cookie(&cookie)
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	cookie := fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	}
	c.Cookie(&cookie)
}
