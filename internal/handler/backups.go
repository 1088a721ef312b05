package handler

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"carstock/internal/backup"
	"carstock/internal/catalog"
	"carstock/internal/telegram"
)

// BackupHandler exposes the manual backup trigger and the backup
// listing/status endpoints.
type BackupHandler struct {
	Service *backup.Service
	Catalog *catalog.Facade
	Bot     *telegram.Client
}

// NewBackupHandler constructs a BackupHandler.
func NewBackupHandler(service *backup.Service, cat *catalog.Facade, bot *telegram.Client) *BackupHandler {
	return &BackupHandler{Service: service, Catalog: cat, Bot: bot}
}

// Manual runs a snapshot on demand.
func (h *BackupHandler) Manual(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 90*time.Second)
	defer cancel()

	path, err := h.Service.Run(ctx, "manual", "User")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "backup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "success",
		"message":  "backup created",
		"filepath": path,
		"filename": filepath.Base(path),
	})
}

// List returns the local backup files, newest first.
func (h *BackupHandler) List(c echo.Context) error {
	backups, err := h.Service.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read backups failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_backups": len(backups),
		"backups":       backups,
	})
}

// Status reports the catalog's backup readiness: size and most recent
// update.
func (h *BackupHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cache := h.Catalog.Load(ctx)
	if len(cache) == 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"has_backup":     false,
			"total_products": 0,
			"last_update":    nil,
		})
	}
	lastUpdate := ""
	for _, p := range cache {
		if p.LastUpdate > lastUpdate {
			lastUpdate = p.LastUpdate
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"has_backup":          true,
		"total_products":      len(cache),
		"last_update":         lastUpdate,
		"telegram_configured": h.Bot.Configured(),
	})
}
