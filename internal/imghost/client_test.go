package imghost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carstock/internal/apperr"
	"carstock/internal/config"
)

func TestUpload(t *testing.T) {
	content := []byte("fake image bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "test-key", r.PostFormValue("key"))
		assert.Equal(t, base64.StdEncoding.EncodeToString(content), r.PostFormValue("image"))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"url": "https://i.example/abc.jpg"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, config.NewSettings(config.Config{ImageHostKey: "test-key"}))
	url, err := c.Upload(context.Background(), content)
	require.NoError(t, err)
	assert.Equal(t, "https://i.example/abc.jpg", url)
}

func TestUploadRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]any{"message": "invalid API key"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, config.NewSettings(config.Config{ImageHostKey: "bad-key"}))
	_, err := c.Upload(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Contains(t, err.Error(), "invalid API key")
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, config.NewSettings(config.Config{ImageHostKey: "key"}))
	_, err := c.Upload(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestUploadWithoutKey(t *testing.T) {
	c := New("http://127.0.0.1:0", config.NewSettings(config.Config{}))
	assert.False(t, c.Configured())

	_, err := c.Upload(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}
