package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"moco-web/internal/auth"
	"moco-web/internal/backend"
	"moco-web/internal/events"
	"moco-web/internal/media"
)

type UploadHandler struct {
	uploader    media.Uploader
	backend     *backend.Client
	authService *auth.Service
	bus         *events.Broadcaster
}

func NewUploadHandler(uploader media.Uploader, backendClient *backend.Client, authService *auth.Service, bus *events.Broadcaster) *UploadHandler {
	return &UploadHandler{
		uploader:    uploader,
		backend:     backendClient,
		authService: authService,
		bus:         bus,
	}
}

// @Summary Upload an image
// @Description Upload a single image for the signed-in user and register it with the backend
// @Tags image
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} backend.Envelope
// @Failure 400 {object} backend.Envelope
// @Failure 401 {object} backend.Envelope
// @Failure 500 {object} backend.Envelope
// @Router /api/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	// Unlike the proxy reads, this route reports real HTTP status codes.
	claims := sessionClaims(c, h.authService)
	if claims == nil || claims.Email == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(
			backend.Fail(401, "Unauthorized", "User not authenticated"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			backend.Fail(400, "Bad Request", "No file uploaded"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.uploadFailed(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return h.uploadFailed(c, err)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	imageLink, err := h.uploader.Upload(c.Context(), data, contentType)
	if err != nil {
		return h.uploadFailed(c, err)
	}

	env, err := h.backend.RegisterImage(c.Context(), claims.Email, imageLink)
	if err != nil {
		return h.uploadFailed(c, err)
	}

	// The backend is the authority on limit enforcement; its failure
	// envelope (and embedded status) is propagated verbatim.
	if !env.Success {
		return c.Status(env.StatusCode).JSON(env)
	}

	h.bus.Emit(events.TopicImageUploaded)

	return c.JSON(backend.OK("Image uploaded successfully", fiber.Map{
		"email":     claims.Email,
		"imageLink": imageLink,
	}))
}

func (h *UploadHandler) uploadFailed(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Msg("Error uploading file")
	return c.Status(fiber.StatusInternalServerError).JSON(
		backend.Fail(500, "Internal Server Error", err.Error()))
}
