// Package imghost relays product images to the external image-hosting
// API. The relay is one-shot: the raw bytes are base64-encoded, posted
// once, and the resulting public URL is returned. Upload failures are
// surfaced to the caller; products are never stored with broken image
// references silently.
package imghost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"carstock/internal/apperr"
	"carstock/internal/config"
)

// DefaultUploadURL is the production endpoint of the image host.
const DefaultUploadURL = "https://api.imgbb.com/1/upload"

// Client uploads images on behalf of product mutations.
type Client struct {
	uploadURL string
	settings  *config.Settings
	http      *http.Client
}

// New returns a client reading its API key from the runtime settings.
// uploadURL may be empty to use the production endpoint.
func New(uploadURL string, settings *config.Settings) *Client {
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}
	return &Client{
		uploadURL: uploadURL,
		settings:  settings,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.settings.Snapshot().ImageHostKey != ""
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload posts the image content and returns its public URL.
func (c *Client) Upload(ctx context.Context, content []byte) (string, error) {
	key := c.settings.Snapshot().ImageHostKey
	if key == "" {
		return "", fmt.Errorf("%w: image host API key is not configured", apperr.ErrUpstream)
	}

	form := url.Values{}
	form.Set("key", key)
	form.Set("image", base64.StdEncoding.EncodeToString(content))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: image upload: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: image upload: status %d", apperr.ErrUpstream, resp.StatusCode)
	}
	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return "", fmt.Errorf("%w: image upload: %v", apperr.ErrUpstream, err)
	}
	if !ur.Success || ur.Data.URL == "" {
		return "", fmt.Errorf("%w: image upload: %s", apperr.ErrUpstream, ur.Error.Message)
	}
	return ur.Data.URL, nil
}
