package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"carstock/internal/catalog"
	"carstock/internal/model"
	"carstock/internal/telegram"
)

// TransferHandler exposes export, import and the channel sync stub.
type TransferHandler struct {
	Catalog *catalog.Facade
	Mirror  *telegram.Mirror
}

// NewTransferHandler constructs a TransferHandler.
func NewTransferHandler(cat *catalog.Facade, mirror *telegram.Mirror) *TransferHandler {
	return &TransferHandler{Catalog: cat, Mirror: mirror}
}

// Export streams the full catalog snapshot as a downloadable JSON
// document. No side effects beyond the response.
func (h *TransferHandler) Export(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cache := h.Catalog.Load(ctx)
	snap := h.Catalog.Snapshot("manual", "User", cache)
	filename := fmt.Sprintf("car_stock_backup_%s.json", time.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.JSON(http.StatusOK, snap)
}

type importDocument struct {
	Products map[string]model.Product `json:"products"`
}

// Import merges an uploaded snapshot into the catalog: new product
// numbers are inserted, strictly newer records overwrite, the rest are
// skipped. Per-record failures are collected, never fatal.
func (h *TransferHandler) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable file"})
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable file"})
	}
	var doc importDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON file"})
	}
	if doc.Products == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid file: no products section"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Minute)
	defer cancel()
	stats := h.Catalog.Import(ctx, doc.Products)
	return c.JSON(http.StatusOK, echo.Map{
		"status":     "success",
		"message":    "import finished",
		"statistics": stats,
	})
}

// Sync is the best-effort channel recovery stub: it counts mirrored
// messages without reconstructing records from them.
func (h *TransferHandler) Sync(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 90*time.Second)
	defer cancel()

	synced, err := h.Mirror.SyncFromChannel(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":          "success",
		"synced_messages": synced,
		"total_products":  len(h.Catalog.Load(ctx)),
	})
}
