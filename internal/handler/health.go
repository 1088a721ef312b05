package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"carstock/internal/config"
	"carstock/internal/imghost"
	"carstock/internal/telegram"
)

// HealthHandler probes the external collaborators' configuration.
type HealthHandler struct {
	Bot    *telegram.Client
	Images *imghost.Client
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(bot *telegram.Client, images *imghost.Client) *HealthHandler {
	return &HealthHandler{Bot: bot, Images: images}
}

// Get reports service status and, when the bot is configured, performs
// a live credentials probe.
func (h *HealthHandler) Get(c echo.Context) error {
	messaging := echo.Map{"status": "not_configured"}
	if h.Bot.Configured() {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
		info, err := h.Bot.GetMe(ctx)
		cancel()
		if err != nil {
			messaging = echo.Map{"status": "error", "message": "connection failed"}
		} else {
			messaging = echo.Map{
				"status":       "ok",
				"bot_username": info.Username,
				"bot_name":     info.FirstName,
				"chat_id":      h.Bot.ChatID(),
			}
		}
	}

	images := echo.Map{"status": "not_configured"}
	if h.Images.Configured() {
		images = echo.Map{"status": "ok", "api_key_configured": true}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":   "online",
		"version":  config.Version,
		"telegram": messaging,
		"imgbb":    images,
	})
}
