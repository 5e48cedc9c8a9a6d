package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/storage"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/modules/stockman/reports"
)

type HealthHandler struct {
	downloads *storage.Downloads
}

func NewHealthHandler(downloads *storage.Downloads) *HealthHandler {
	return &HealthHandler{downloads: downloads}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "export-api",
		"storage":   h.downloads.Provider().GetProviderName(),
		"downloads": h.downloads.Len(),
		"reports":   reports.Names(),
	})
}
