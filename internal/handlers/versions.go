package handlers

import (
	"github.com/gofiber/fiber/v2"

	"moco-web/internal/versions"
)

type VersionsHandler struct {
	service *versions.Service
}

func NewVersionsHandler(service *versions.Service) *VersionsHandler {
	return &VersionsHandler{service: service}
}

// @Summary Framework versions
// @Description Cached latest versions of the tracked frameworks
// @Tags versions
// @Produce json
// @Success 200 {object} map[string][]versions.Framework
// @Router /api/versions [get]
func (h *VersionsHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"frameworks": h.service.Snapshot(),
	})
}
