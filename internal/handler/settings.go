package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carstock/internal/config"
)

// SettingsHandler reads and updates the runtime settings. Updates are
// in-memory only; they do not survive a restart.
type SettingsHandler struct {
	Cfg      config.Config
	Settings *config.Settings
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(cfg config.Config, settings *config.Settings) *SettingsHandler {
	return &SettingsHandler{Cfg: cfg, Settings: settings}
}

// Get returns the current settings with secrets masked.
func (h *SettingsHandler) Get(c echo.Context) error {
	s := h.Settings.Snapshot()
	return c.JSON(http.StatusOK, echo.Map{
		"telegram_bot_token": mask(s.BotToken, 10),
		"telegram_chat_id":   s.ChatID,
		"imgbb_api_key":      mask(s.ImageHostKey, 5),
		"version":            config.Version,
		"database_url":       h.Cfg.DatabaseURL,
	})
}

type settingsReq struct {
	BotToken     string `form:"bot_token"`
	ChatID       string `form:"chat_id"`
	ImageHostKey string `form:"imgbb_key"`
}

// Update overwrites the submitted fields; omitted fields keep their
// current values.
func (h *SettingsHandler) Update(c echo.Context) error {
	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	h.Settings.Update(req.BotToken, req.ChatID, req.ImageHostKey)
	return c.JSON(http.StatusOK, echo.Map{"message": "settings updated"})
}

// mask keeps the first n characters of a secret and elides the rest.
func mask(secret string, n int) any {
	if secret == "" {
		return nil
	}
	if len(secret) <= n {
		return secret + "..."
	}
	return secret[:n] + "..."
}
