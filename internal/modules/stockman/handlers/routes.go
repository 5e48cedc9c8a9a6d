package handlers

import "github.com/gofiber/fiber/v2"

// Register mounts the export routes on router
func Register(router fiber.Router, health *HealthHandler, exports *ExportHandler) {
	router.Get("/health", health.GetHealth)

	router.Post("/exports/:report", exports.ExportReport)
	router.Post("/documents/purchase-order", exports.PurchaseOrder)
	router.Post("/documents/invoice", exports.Invoice)
	router.Get("/activity/export", exports.ExportActivity)
	router.Get("/downloads/:id", exports.Download)
}
