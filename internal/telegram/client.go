// Package telegram implements the messaging-API collaborator: a thin
// bot client plus the product mirror that keeps one human-readable
// message per product in the configured channel. The mirror is purely
// informational and is never read back as a source of truth.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"carstock/internal/apperr"
	"carstock/internal/config"
)

// DefaultAPIBase is the production messaging API host.
const DefaultAPIBase = "https://api.telegram.org"

// Client wraps the bot HTTP API. Token and chat id are read from the
// runtime settings on every call so admin updates apply immediately.
type Client struct {
	apiBase  string
	settings *config.Settings
	http     *http.Client
}

// NewClient returns a bot client. apiBase may be empty to use the
// production host.
func NewClient(apiBase string, settings *config.Settings) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		apiBase:  apiBase,
		settings: settings,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether both bot token and chat id are set.
func (c *Client) Configured() bool {
	s := c.settings.Snapshot()
	return s.BotToken != "" && s.ChatID != ""
}

// ChatID returns the configured channel id.
func (c *Client) ChatID() string {
	return c.settings.Snapshot().ChatID
}

func (c *Client) methodURL(method string) string {
	return c.apiBase + "/bot" + c.settings.Snapshot().BotToken + "/" + method
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// post sends a JSON call and decodes the result envelope.
func (c *Client) post(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrUpstream, method, err)
	}
	defer resp.Body.Close()
	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrUpstream, method, err)
	}
	if resp.StatusCode != http.StatusOK || !ar.OK {
		return nil, fmt.Errorf("%w: %s: %s", apperr.ErrUpstream, method, ar.Description)
	}
	return ar.Result, nil
}

type sentMessage struct {
	MessageID int64 `json:"message_id"`
}

// SendMessage posts an HTML-formatted message to the channel and
// returns the new message id.
func (c *Client) SendMessage(ctx context.Context, text string) (int64, error) {
	res, err := c.post(ctx, "sendMessage", map[string]any{
		"chat_id":    c.ChatID(),
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return 0, err
	}
	var m sentMessage
	if err := json.Unmarshal(res, &m); err != nil {
		return 0, fmt.Errorf("%w: sendMessage: %v", apperr.ErrUpstream, err)
	}
	return m.MessageID, nil
}

// EditMessageText rewrites an existing channel message in place.
func (c *Client) EditMessageText(ctx context.Context, messageID int64, text string) error {
	_, err := c.post(ctx, "editMessageText", map[string]any{
		"chat_id":    c.ChatID(),
		"message_id": messageID,
		"text":       text,
		"parse_mode": "HTML",
	})
	return err
}

// DeleteMessage removes a channel message.
func (c *Client) DeleteMessage(ctx context.Context, messageID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	_, err := c.post(ctx, "deleteMessage", map[string]any{
		"chat_id":    c.ChatID(),
		"message_id": messageID,
	})
	return err
}

// SendDocument uploads a file to the channel with a caption.
func (c *Client) SendDocument(ctx context.Context, filename string, content []byte, caption string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", c.ChatID()); err != nil {
		return err
	}
	if err := w.WriteField("caption", caption); err != nil {
		return err
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendDocument"), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sendDocument: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()
	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return fmt.Errorf("%w: sendDocument: %v", apperr.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK || !ar.OK {
		return fmt.Errorf("%w: sendDocument: %s", apperr.ErrUpstream, ar.Description)
	}
	return nil
}

// BotInfo is the subset of getMe used by the health probe.
type BotInfo struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// GetMe probes the bot credentials.
func (c *Client) GetMe(ctx context.Context) (BotInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.methodURL("getMe"), nil)
	if err != nil {
		return BotInfo{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return BotInfo{}, fmt.Errorf("%w: getMe: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()
	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return BotInfo{}, fmt.Errorf("%w: getMe: %v", apperr.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK || !ar.OK {
		return BotInfo{}, fmt.Errorf("%w: getMe: %s", apperr.ErrUpstream, ar.Description)
	}
	var info BotInfo
	if err := json.Unmarshal(ar.Result, &info); err != nil {
		return BotInfo{}, fmt.Errorf("%w: getMe: %v", apperr.ErrUpstream, err)
	}
	return info, nil
}

// Update is one entry of a getUpdates response; only the chat id is
// inspected by the sync stub.
type Update struct {
	Message struct {
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Caption string `json:"caption"`
	} `json:"message"`
}

// GetUpdates fetches up to limit recent bot updates.
func (c *Client) GetUpdates(ctx context.Context, limit int) ([]Update, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.methodURL("getUpdates")+"?limit="+strconv.Itoa(limit), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: getUpdates: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()
	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("%w: getUpdates: %v", apperr.ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK || !ar.OK {
		return nil, fmt.Errorf("%w: getUpdates: %s", apperr.ErrUpstream, ar.Description)
	}
	var updates []Update
	if err := json.Unmarshal(ar.Result, &updates); err != nil {
		return nil, fmt.Errorf("%w: getUpdates: %v", apperr.ErrUpstream, err)
	}
	return updates, nil
}
