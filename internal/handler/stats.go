package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"carstock/internal/catalog"
)

// StatsHandler serves the dashboard statistics.
type StatsHandler struct {
	Catalog *catalog.Facade
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(cat *catalog.Facade) *StatsHandler {
	return &StatsHandler{Catalog: cat}
}

// Get aggregates the catalog into the dashboard payload.
func (h *StatsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	return c.JSON(http.StatusOK, catalog.ComputeStats(h.Catalog.Load(ctx)))
}
