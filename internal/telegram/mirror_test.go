package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carstock/internal/config"
	"carstock/internal/model"
)

// fakeAPI records bot method calls and serves canned envelope responses.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	failEdit bool
	nextID   int64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 100}
}

func (f *fakeAPI) record(method string) {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.mu.Unlock()
}

func (f *fakeAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		method := parts[len(parts)-1]
		f.record(method)
		switch method {
		case "sendMessage":
			f.mu.Lock()
			f.nextID++
			id := f.nextID
			f.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]any{
				"ok":     true,
				"result": map[string]any{"message_id": id},
			})
		case "editMessageText":
			if f.failEdit {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "message to edit not found"})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": true})
		case "deleteMessage":
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": true})
		case "getMe":
			json.NewEncoder(w).Encode(map[string]any{
				"ok":     true,
				"result": map[string]any{"username": "carstock_bot", "first_name": "CarStock"},
			})
		case "getUpdates":
			json.NewEncoder(w).Encode(map[string]any{
				"ok": true,
				"result": []map[string]any{
					{"message": map[string]any{"chat": map[string]any{"id": 555}, "caption": "one"}},
					{"message": map[string]any{"chat": map[string]any{"id": 555}, "caption": "two"}},
					{"message": map[string]any{"chat": map[string]any{"id": 999}}},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "description": "unknown method"})
		}
	}
}

func newTestMirror(t *testing.T, api *fakeAPI) (*Mirror, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	settings := config.NewSettings(config.Config{BotToken: "TOKEN", ChatID: "555"})
	clk := testclock.NewClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))
	return NewMirror(NewClient(srv.URL, settings), clk), srv
}

func TestPublishNewProduct(t *testing.T) {
	api := newFakeAPI()
	m, _ := newTestMirror(t, api)

	id, err := m.Publish(context.Background(), model.Product{ProductNumber: "123", ProductName: "Brake pad"})
	require.NoError(t, err)
	assert.Equal(t, int64(101), id)
	assert.Equal(t, []string{"sendMessage"}, api.calls)
}

func TestPublishEditsExistingMessage(t *testing.T) {
	api := newFakeAPI()
	m, _ := newTestMirror(t, api)

	id, err := m.Publish(context.Background(), model.Product{ProductNumber: "123", MessageID: 42})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id, "a successful edit keeps the message id")
	assert.Equal(t, []string{"editMessageText"}, api.calls)
}

func TestPublishFallsBackToSendOnEditFailure(t *testing.T) {
	api := newFakeAPI()
	api.failEdit = true
	m, _ := newTestMirror(t, api)

	id, err := m.Publish(context.Background(), model.Product{ProductNumber: "123", MessageID: 42})
	require.NoError(t, err)
	assert.Equal(t, int64(101), id, "the fallback send yields a fresh id")
	assert.Equal(t, []string{"editMessageText", "sendMessage"}, api.calls)
}

func TestPublishUnconfiguredIsNoop(t *testing.T) {
	settings := config.NewSettings(config.Config{})
	clk := testclock.NewClock(time.Now())
	m := NewMirror(NewClient("http://127.0.0.1:0", settings), clk)

	id, err := m.Publish(context.Background(), model.Product{ProductNumber: "123"})
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestRetractSwallowsFailures(t *testing.T) {
	settings := config.NewSettings(config.Config{BotToken: "TOKEN", ChatID: "555"})
	clk := testclock.NewClock(time.Now())
	m := NewMirror(NewClient("http://127.0.0.1:0", settings), clk)

	// The endpoint is unreachable; Retract must not panic or block.
	m.Retract(context.Background(), 42)
}

func TestSyncFromChannelCountsMatchingChat(t *testing.T) {
	api := newFakeAPI()
	m, _ := newTestMirror(t, api)

	synced, err := m.SyncFromChannel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, synced, "only updates for the configured chat count")
}

func TestRenderCaption(t *testing.T) {
	api := newFakeAPI()
	m, _ := newTestMirror(t, api)

	caption := m.RenderCaption(model.Product{
		ProductNumber:     "PN-20260901-AB12",
		ProductName:       "Brake pad",
		CarName:           "Toyota Camry",
		Type:              "brakes",
		Quantity:          4,
		Status:            model.StatusAvailable,
		PriceIQD:          1250000,
		WholesalePriceIQD: 900000,
		Image:             "https://i.example/abc.jpg",
	})

	assert.Contains(t, caption, "<b>Brake pad</b>")
	assert.Contains(t, caption, "Toyota Camry")
	assert.Contains(t, caption, "<code>PN-20260901-AB12</code>")
	assert.Contains(t, caption, "1,250,000 IQD")
	assert.Contains(t, caption, "900,000 IQD")
	assert.Contains(t, caption, "available")
	assert.Contains(t, caption, "2026-09-01 12:00")
	assert.Contains(t, caption, "https://i.example/abc.jpg")
	assert.Contains(t, caption, "unspecified", "a missing model number renders the placeholder")
}

func TestGetMe(t *testing.T) {
	api := newFakeAPI()
	m, _ := newTestMirror(t, api)

	info, err := m.Client().GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "carstock_bot", info.Username)
	assert.Equal(t, "CarStock", info.FirstName)
}
