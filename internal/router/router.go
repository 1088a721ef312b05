// Package router registers the HTTP routes and their middleware
// chains. Health, login and the role table are public; everything else
// requires a bearer session, and mutating endpoints additionally
// require the matching permission.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"carstock/internal/handler"
	"carstock/internal/middleware"
	"carstock/internal/model"
	"carstock/internal/store"
)

// Handlers collects every handler wired by Register.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Products *handler.ProductHandler
	Stats    *handler.StatsHandler
	Settings *handler.SettingsHandler
	Backups  *handler.BackupHandler
	Transfer *handler.TransferHandler
	Health   *handler.HealthHandler
}

// Register wires all routes on the Echo instance.
func Register(e *echo.Echo, h Handlers, sessions *store.SessionStore) {
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	// Public endpoints.
	e.GET("/api/health", h.Health.Get)
	e.POST("/api/auth/login", h.Auth.Login)
	e.GET("/api/auth/roles", h.Auth.Roles)
	e.GET("/image/:id", h.Products.ImageRedirect)

	// Everything below requires a valid bearer session.
	api := e.Group("/api", middleware.SessionAuth(sessions))

	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/me", h.Auth.Me)

	// User management is gated on the backup permission (admin only).
	admin := api.Group("", middleware.RequirePermission(model.PermBackup))
	admin.GET("/users", h.Users.List)
	admin.POST("/users", h.Users.Create)
	admin.DELETE("/users/:username", h.Users.Delete)
	admin.GET("/settings", h.Settings.Get)
	admin.POST("/settings", h.Settings.Update)
	admin.POST("/backup/manual", h.Backups.Manual)

	view := middleware.RequirePermission(model.PermView)
	api.GET("/products", h.Products.List, view)
	api.GET("/stats", h.Stats.Get, view)
	api.GET("/backups/list", h.Backups.List, view)
	api.GET("/backup-status", h.Backups.Status, view)

	api.POST("/products", h.Products.Create, middleware.RequirePermission(model.PermAdd))
	api.PATCH("/products/:number", h.Products.Update, middleware.RequirePermission(model.PermEdit))
	api.POST("/update-status/:number", h.Products.UpdateStatus, middleware.RequirePermission(model.PermEdit))
	api.DELETE("/products/:number", h.Products.Delete, middleware.RequirePermission(model.PermDelete))

	api.GET("/export", h.Transfer.Export, middleware.RequirePermission(model.PermExport))
	api.POST("/import", h.Transfer.Import, middleware.RequirePermission(model.PermImport))
	api.POST("/sync", h.Transfer.Sync, middleware.RequirePermission(model.PermImport))
}
