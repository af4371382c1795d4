package inventory

import (
	"context"
	"errors"
	"strings"

	"lv-inventory/core/logger"
	"lv-inventory/core/procore"
	"lv-inventory/feature/inventory/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TokenExchanger trades an OAuth authorization code for a session.
// *procore.Client implements it; the route is skipped when nil is wired.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) error
}

// Handler handles HTTP requests for inventory.
type Handler struct {
	service   *Service
	exchanger TokenExchanger
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, exchanger TokenExchanger, logger *zap.Logger) *Handler {
	return &Handler{service: service, exchanger: exchanger, logger: logger}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	if h.exchanger != nil {
		app.Get("/oauth/callback", h.HandleOAuthCallback)
	}

	group := app.Group("/projects/:projectId/inventory")
	group.Post("/items", h.HandleAddItem)
	group.Get("/items", h.HandleSearchItems)
	group.Put("/items/:id", h.HandleUpdateItem)
	group.Delete("/items/:id", h.HandleDeleteItem)
	group.Post("/items/:id/adjust", h.HandleAdjustQuantity)
	group.Get("/reorder", h.HandleItemsNeedingReorder)
	group.Get("/report", h.HandleReport)
	group.Get("/export.csv", h.HandleExportCSV)
	group.Get("/export.json", h.HandleExportJSON)
	group.Get("/exports", h.HandleListExports)
	group.Get("/exports/download", h.HandleDownloadExport)
	group.Post("/load", h.HandleLoad)
	group.Post("/save", h.HandleSave)
	group.Post("/reconcile", h.HandleReconcile)
}

// fail maps domain errors to HTTP statuses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInsufficientStock):
		status = fiber.StatusConflict
	case errors.Is(err, ErrInvalidMode):
		status = fiber.StatusBadRequest
	case errors.Is(err, procore.ErrUpstreamUnavailable):
		status = fiber.StatusBadGateway
	case errors.Is(err, procore.ErrAuthenticationFailed), errors.Is(err, procore.ErrNoSession):
		status = fiber.StatusUnauthorized
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleOAuthCallback completes the OAuth login flow.
// @Summary OAuth Callback
// @Description Exchanges the Procore authorization code for a session.
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Success 200 {object} map[string]string "Login complete"
// @Failure 401 {object} map[string]string "Authentication failed"
// @Router /oauth/callback [get]
func (h *Handler) HandleOAuthCallback(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing code"})
	}

	if err := h.exchanger.Exchange(c.Context(), code); err != nil {
		l.Error("Token exchange failed", zap.Error(err))
		return h.fail(c, err)
	}

	l.Info("Procore login complete")
	return c.JSON(fiber.Map{"status": "authenticated"})
}

// HandleAddItem adds an inventory record.
// @Summary Add Item
// @Description Adds a record to the project inventory.
// @Tags inventory
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param record body models.Record true "Record"
// @Success 201 {object} models.Record
// @Failure 400 {object} map[string]string "Invalid body"
// @Router /projects/{projectId}/inventory/items [post]
func (h *Handler) HandleAddItem(c *fiber.Ctx) error {
	var rec models.Record
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid record body"})
	}

	created := h.service.AddItem(c.Params("projectId"), rec)
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleSearchItems searches inventory records.
// @Summary Search Items
// @Description Returns records matching the case-insensitive substring filters.
// @Tags inventory
// @Produce json
// @Param projectId path string true "Project ID"
// @Param category query string false "Category filter"
// @Param description query string false "Description filter"
// @Param part_number query string false "Part number filter"
// @Param location query string false "Location filter"
// @Success 200 {array} models.Record
// @Router /projects/{projectId}/inventory/items [get]
func (h *Handler) HandleSearchItems(c *fiber.Ctx) error {
	filter := Filter{
		Category:     c.Query("category"),
		SubCategory:  c.Query("sub_category"),
		Manufacturer: c.Query("manufacturer"),
		PartNumber:   c.Query("part_number"),
		Description:  c.Query("description"),
		Location:     c.Query("location"),
	}

	items := h.service.SearchItems(c.Params("projectId"), filter)
	if items == nil {
		items = []models.Record{}
	}
	return c.JSON(items)
}

// HandleUpdateItem applies a partial field edit.
// @Summary Update Item
// @Description Applies a partial edit to a record; nil fields stay unchanged.
// @Tags inventory
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param id path string true "Record ID"
// @Param patch body Patch true "Field edits"
// @Success 200 {object} models.Record
// @Failure 404 {object} map[string]string "Record not found"
// @Router /projects/{projectId}/inventory/items/{id} [put]
func (h *Handler) HandleUpdateItem(c *fiber.Ctx) error {
	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid patch body"})
	}

	rec, err := h.service.UpdateItem(c.Params("projectId"), c.Params("id"), patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(rec)
}

// HandleDeleteItem removes a record.
// @Summary Delete Item
// @Tags inventory
// @Produce json
// @Param projectId path string true "Project ID"
// @Param id path string true "Record ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Record not found"
// @Router /projects/{projectId}/inventory/items/{id} [delete]
func (h *Handler) HandleDeleteItem(c *fiber.Ctx) error {
	if err := h.service.DeleteItem(c.Params("projectId"), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// adjustRequest is the body of an adjustment call.
type adjustRequest struct {
	Delta float64           `json:"delta"`
	Mode  models.AdjustMode `json:"mode"`
}

// HandleAdjustQuantity applies a stock or allocation adjustment.
// @Summary Adjust Quantity
// @Description Applies a quantity adjustment in stock or allocation mode.
// @Tags inventory
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param id path string true "Record ID"
// @Param adjustment body adjustRequest true "Adjustment"
// @Success 200 {object} models.Record
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Router /projects/{projectId}/inventory/items/{id}/adjust [post]
func (h *Handler) HandleAdjustQuantity(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid adjustment body"})
	}
	if !req.Mode.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mode must be stock or allocation"})
	}

	rec, err := h.service.AdjustQuantity(c.Context(), c.Params("projectId"), c.Params("id"), req.Delta, req.Mode)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrInsufficientStock) {
			l.Error("Adjustment failed", zap.Error(err))
		}
		return h.fail(c, err)
	}
	return c.JSON(rec)
}

// HandleItemsNeedingReorder lists records at or below their reorder threshold.
// @Summary Items Needing Reorder
// @Tags inventory
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {array} models.Record
// @Router /projects/{projectId}/inventory/reorder [get]
func (h *Handler) HandleItemsNeedingReorder(c *fiber.Ctx) error {
	items := h.service.ItemsNeedingReorder(c.Params("projectId"))
	if items == nil {
		items = []models.Record{}
	}
	return c.JSON(items)
}

// HandleReport computes the inventory report.
// @Summary Inventory Report
// @Description Aggregates the snapshot into totals and a per-category breakdown.
// @Tags inventory
// @Produce json
// @Param projectId path string true "Project ID"
// @Param category query string false "Category filter"
// @Param description query string false "Description filter"
// @Success 200 {object} Report
// @Router /projects/{projectId}/inventory/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	filter := Filter{
		Category:     c.Query("category"),
		SubCategory:  c.Query("sub_category"),
		Manufacturer: c.Query("manufacturer"),
		PartNumber:   c.Query("part_number"),
		Description:  c.Query("description"),
		Location:     c.Query("location"),
	}
	return c.JSON(h.service.GenerateReport(c.Params("projectId"), filter))
}

// HandleExportCSV streams the inventory as CSV.
// @Summary Export CSV
// @Description Exports the snapshot as CSV in the fixed column order. With archive=true the file is also uploaded to the export archive.
// @Tags export
// @Produce text/csv
// @Param projectId path string true "Project ID"
// @Param archive query boolean false "Archive the export"
// @Success 200 {string} string "CSV payload"
// @Router /projects/{projectId}/inventory/export.csv [get]
func (h *Handler) HandleExportCSV(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	data, err := h.service.ExportCSV(c.Context(), c.Params("projectId"), c.Query("archive") == "true")
	if err != nil {
		l.Error("CSV export failed", zap.Error(err))
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="inventory.csv"`)
	return c.Send(data)
}

// HandleExportJSON streams the inventory as JSON.
// @Summary Export JSON
// @Tags export
// @Produce json
// @Param projectId path string true "Project ID"
// @Param archive query boolean false "Archive the export"
// @Success 200 {array} models.Record
// @Router /projects/{projectId}/inventory/export.json [get]
func (h *Handler) HandleExportJSON(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	data, err := h.service.ExportJSON(c.Context(), c.Params("projectId"), c.Query("archive") == "true")
	if err != nil {
		l.Error("JSON export failed", zap.Error(err))
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// HandleListExports lists archived exports for the project.
// @Summary List Archived Exports
// @Tags export
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {array} string
// @Router /projects/{projectId}/inventory/exports [get]
func (h *Handler) HandleListExports(c *fiber.Ctx) error {
	names, err := h.service.ListExports(c.Context(), c.Params("projectId"))
	if err != nil {
		return h.fail(c, err)
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(names)
}

// HandleDownloadExport downloads one archived export.
// @Summary Download Archived Export
// @Tags export
// @Produce octet-stream
// @Param projectId path string true "Project ID"
// @Param name query string true "Archived object name"
// @Success 200 {string} string "Export payload"
// @Failure 400 {object} map[string]string "Name outside the project archive"
// @Router /projects/{projectId}/inventory/exports/download [get]
func (h *Handler) HandleDownloadExport(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing name"})
	}
	// Confine downloads to the project's own archive prefix.
	if !strings.HasPrefix(name, "exports/"+c.Params("projectId")+"/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name outside project archive"})
	}

	obj, err := h.service.DownloadExport(c.Context(), name)
	if err != nil {
		return h.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.SendStream(obj)
}

// HandleLoad loads the project inventory from the vendor (or local fallback).
// @Summary Load Inventory
// @Description Loads the persisted inventory from Procore, falling back to the local snapshot when the vendor is unavailable.
// @Tags persistence
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} map[string]int "Loaded record count"
// @Failure 401 {object} map[string]string "Authentication required"
// @Router /projects/{projectId}/inventory/load [post]
func (h *Handler) HandleLoad(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	count, err := h.service.Load(c.Context(), c.Params("projectId"))
	if err != nil {
		l.Error("Inventory load failed", zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"loaded": count})
}

// HandleSave persists the project inventory.
// @Summary Save Inventory
// @Description Saves the snapshot to the local store and best-effort to Procore.
// @Tags persistence
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} map[string]string "Saved"
// @Router /projects/{projectId}/inventory/save [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if err := h.service.Save(c.Context(), c.Params("projectId")); err != nil {
		l.Error("Inventory save failed", zap.Error(err))
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"status": "saved"})
}

// HandleReconcile runs purchase-order reconciliation.
// @Summary Reconcile Purchase Orders
// @Description Applies relevant Approved/Closed purchase orders to the inventory and persists the result.
// @Tags reconcile
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} reconcile.Result
// @Failure 502 {object} map[string]string "Vendor unavailable"
// @Router /projects/{projectId}/inventory/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	projectID := c.Params("projectId")
	l.Info("Starting reconciliation", zap.String("project_id", projectID))

	result, err := h.service.Reconcile(c.Context(), projectID)
	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err))
		return h.fail(c, err)
	}

	l.Info("Reconciliation complete",
		zap.String("project_id", projectID),
		zap.Int("records_touched", result.RecordsTouched))
	return c.JSON(result)
}
