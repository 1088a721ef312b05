// Package handler contains the HTTP handlers for the API surface. Each
// handler struct bundles the collaborators of one concern; routing
// lives in internal/router.
package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"carstock/internal/apperr"
)

// Validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound DTOs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns the application's request validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// fail translates a sentinel-tagged error into its JSON error response.
func fail(c echo.Context, err error) error {
	return c.JSON(apperr.Status(err), echo.Map{"error": err.Error()})
}
