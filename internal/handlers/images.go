package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"moco-web/internal/auth"
	"moco-web/internal/backend"
	"moco-web/internal/gate"
)

type ImagesHandler struct {
	backend     *backend.Client
	authService *auth.Service
	gate        *gate.Gate
}

func NewImagesHandler(backendClient *backend.Client, authService *auth.Service, limitGate *gate.Gate) *ImagesHandler {
	return &ImagesHandler{
		backend:     backendClient,
		authService: authService,
		gate:        limitGate,
	}
}

// @Summary Check upload limit
// @Description Proxy the backend's upload-limit check for an email
// @Tags image
// @Produce json
// @Param email query string true "User email"
// @Success 200 {object} backend.Envelope
// @Router /api/image/check-upload-limit [get]
func (h *ImagesHandler) CheckUploadLimit(c *fiber.Ctx) error {
	// Always HTTP 200; the real status travels inside the envelope.
	email := c.Query("email")
	if email == "" {
		return c.JSON(backend.Fail(400, "Operation failed", "Email parameter is required."))
	}

	env, err := h.backend.CheckUploadLimit(c.Context(), email)
	if err != nil {
		log.Error().Err(err).Msg("Error checking upload limit")
		return c.JSON(backend.Fail(500, "Operation failed", err.Error()))
	}

	return c.JSON(env)
}

// @Summary Upload gate status
// @Description Report whether the signed-in user may upload another image today
// @Tags image
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/upload-status [get]
func (h *ImagesHandler) UploadStatus(c *fiber.Ctx) error {
	claims := sessionClaims(c, h.authService)

	email := ""
	if claims != nil {
		email = claims.Email
	}

	// Optimistic hint only; the upload route re-decides.
	status := h.gate.Check(c.Context(), email)
	return c.JSON(fiber.Map{
		"status": string(status),
	})
}

// @Summary List the user's images
// @Description Fetch the signed-in user's uploaded image URLs
// @Tags image
// @Produce json
// @Success 200 {object} backend.Envelope
// @Router /api/image/get-images-by-user [get]
func (h *ImagesHandler) ImagesByUser(c *fiber.Ctx) error {
	claims := sessionClaims(c, h.authService)
	if claims == nil || claims.Email == "" {
		return c.JSON(backend.Fail(401, "Operation failed", "User not authenticated"))
	}

	env, err := h.backend.ImagesByUser(c.Context(), claims.Email)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching images")
		return c.JSON(backend.Fail(500, "Operation failed", err.Error()))
	}

	// The backend sends one comma-separated string; hand the client a
	// split, trimmed list in its place.
	if env.Success {
		env.Result = backend.SplitImageList(env.ResultString())
	}

	return c.JSON(env)
}
