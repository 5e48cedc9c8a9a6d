package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/audit"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/export"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/core/storage"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/modules/stockman/reports"
	"github.com/MuhamadAgungGumelar/stockman-export/internal/shared/utils"
)

const (
	deliveryLink   = "link"
	userNameHeader = "X-User-Name"
	exportFailed   = "Erreur lors de l'export. Veuillez réessayer."
)

// Defaults fills the presentation settings a request leaves empty
type Defaults struct {
	Currency  string
	StoreName string
	BaseURL   string
}

type ExportHandler struct {
	exports   *export.Service
	downloads *storage.Downloads
	recorder  audit.Recorder
	defaults  Defaults
}

func NewExportHandler(exports *export.Service, downloads *storage.Downloads, recorder audit.Recorder, defaults Defaults) *ExportHandler {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &ExportHandler{
		exports:   exports,
		downloads: downloads,
		recorder:  recorder,
		defaults:  defaults,
	}
}

// ExportReport godoc
// @Summary Export a report
// @Description Render a report as an Excel workbook or a PDF document
// @Tags Export
// @Accept json
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param report path string true "Report (inventory, crm, accounting, orders, activity, dashboard, ledger)"
// @Param format query string true "excel or pdf"
// @Param delivery query string false "link to receive a temporary download URL"
// @Param request body reports.Request true "Report data"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /exports/{report} [post]
func (h *ExportHandler) ExportReport(c *fiber.Ctx) error {
	report := c.Params("report")

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var req reports.Request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
	}
	if req.Currency == "" {
		req.Currency = h.defaults.Currency
	}
	if req.StoreName == "" {
		req.StoreName = h.defaults.StoreName
	}

	job, err := reports.Build(report, &req)
	if err != nil {
		if errors.Is(err, reports.ErrUnknownReport) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return h.fail(c, report, err)
	}

	started := time.Now()
	file, err := h.exports.Export(job, format)
	if err != nil {
		return h.fail(c, report, err)
	}

	utils.LogInfo("Report exported", map[string]interface{}{
		"report":   report,
		"format":   string(format),
		"rows":     len(req.Records),
		"bytes":    file.Size,
		"duration": time.Since(started).String(),
	})

	h.record(c, report, string(format), file)
	return h.deliver(c, file)
}

// PurchaseOrder godoc
// @Summary Render a purchase order
// @Description Render a supplier purchase order as PDF
// @Tags Documents
// @Accept json
// @Produce application/pdf
// @Param order body export.PurchaseOrder true "Purchase order"
// @Param delivery query string false "link to receive a temporary download URL"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /documents/purchase-order [post]
func (h *ExportHandler) PurchaseOrder(c *fiber.Ctx) error {
	var order export.PurchaseOrder
	if err := c.BodyParser(&order); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if order.Currency == "" {
		order.Currency = h.defaults.Currency
	}

	file, err := export.RenderPurchaseOrder(&order, h.exports.Now())
	if err != nil {
		if errors.Is(err, export.ErrNoItems) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return h.fail(c, "purchase-order", err)
	}

	h.record(c, "purchase-order", string(export.FormatPDF), file)
	return h.deliver(c, file)
}

// Invoice godoc
// @Summary Render an invoice
// @Description Render a client invoice as PDF
// @Tags Documents
// @Accept json
// @Produce application/pdf
// @Param invoice body export.Invoice true "Invoice"
// @Param delivery query string false "link to receive a temporary download URL"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /documents/invoice [post]
func (h *ExportHandler) Invoice(c *fiber.Ctx) error {
	var inv export.Invoice
	if err := c.BodyParser(&inv); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if inv.Currency == "" {
		inv.Currency = h.defaults.Currency
	}

	file, err := export.RenderInvoice(&inv, h.exports.Now())
	if err != nil {
		if errors.Is(err, export.ErrNoItems) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return h.fail(c, "invoice", err)
	}

	h.record(c, "invoice", string(export.FormatPDF), file)
	return h.deliver(c, file)
}

// ExportActivity godoc
// @Summary Export the activity journal
// @Description Render the stored activity journal, newest first
// @Tags Export
// @Produce application/pdf
// @Param format query string true "excel or pdf"
// @Param module query string false "Only entries of this module"
// @Param limit query int false "Maximum number of entries" default(1000)
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /activity/export [get]
func (h *ExportHandler) ExportActivity(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	logs, err := h.recorder.List(c.UserContext(), audit.ActivityFilter{
		Module:   c.Query("module"),
		PageSize: c.QueryInt("limit", audit.MaxPageSize),
	})
	if err != nil {
		return h.fail(c, "activity", err)
	}

	job := reports.Activity(logs.Records(), reports.Options{
		Currency:  h.defaults.Currency,
		StoreName: h.defaults.StoreName,
	})

	file, err := h.exports.Export(job, format)
	if err != nil {
		return h.fail(c, "activity", err)
	}

	h.record(c, "activity", string(format), file)
	return h.deliver(c, file)
}

// Download godoc
// @Summary Download an export
// @Description Fetch an export stored with delivery=link before its link expires
// @Tags Export
// @Produce application/octet-stream
// @Param id path string true "Download ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{}
// @Router /downloads/{id} [get]
func (h *ExportHandler) Download(c *fiber.Ctx) error {
	dl, rc, err := h.downloads.Open(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "download expired or not found"})
		}
		utils.LogError("Failed to open download", err, map[string]interface{}{"id": c.Params("id")})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": exportFailed})
	}

	c.Attachment(dl.Name)
	c.Set(fiber.HeaderContentType, dl.ContentType)
	return c.SendStream(rc, int(dl.Size))
}

// deliver sends the file inline or, with delivery=link, stores it and
// answers with a temporary URL.
func (h *ExportHandler) deliver(c *fiber.Ctx, file *export.File) error {
	if c.Query("delivery") != deliveryLink {
		c.Attachment(file.Name)
		c.Set(fiber.HeaderContentType, file.ContentType)
		return c.Send(file.Data)
	}

	dl, err := h.downloads.Put(c.UserContext(), file)
	if err != nil {
		utils.LogError("Failed to store export", err, map[string]interface{}{"file": file.Name})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": exportFailed})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":         dl.ID,
		"name":       dl.Name,
		"size":       dl.Size,
		"url":        h.downloadURL(c, dl.ID),
		"expires_at": dl.ExpiresAt,
	})
}

func (h *ExportHandler) downloadURL(c *fiber.Ctx, id string) string {
	base := strings.TrimRight(h.defaults.BaseURL, "/")
	if base == "" {
		base = c.BaseURL()
	}
	return fmt.Sprintf("%s/downloads/%s", base, id)
}

func (h *ExportHandler) record(c *fiber.Ctx, report, format string, file *export.File) {
	entry := audit.ExportEvent(report, format, file.Name, file.Size, c.Get(userNameHeader))

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := h.recorder.Log(ctx, entry); err != nil {
		utils.LogWarn("Failed to record export activity", map[string]interface{}{
			"report": report,
			"error":  err.Error(),
		})
	}
}

// fail logs the cause and answers with a generic message
func (h *ExportHandler) fail(c *fiber.Ctx, report string, err error) error {
	utils.LogError("❌ Export failed", err, map[string]interface{}{"report": report})
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": exportFailed})
}
