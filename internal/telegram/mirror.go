package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/loggo/v2"

	"carstock/internal/model"
	"carstock/internal/utils"
)

var logger = loggo.GetLogger("carstock.telegram")

const captionRule = "━━━━━━━━━━━━━━━━"

// Mirror maintains the channel representation of products: one message
// per product, created on insert, edited in place on update, deleted on
// removal. All of it is best-effort; the catalog never depends on it.
type Mirror struct {
	client *Client
	clock  clock.Clock
}

// NewMirror returns a mirror publishing through the given client.
func NewMirror(client *Client, clk clock.Clock) *Mirror {
	return &Mirror{client: client, clock: clk}
}

// Client exposes the underlying bot client for health probes and
// backup notifications.
func (m *Mirror) Client() *Client { return m.client }

// RenderCaption builds the fixed-template message body for a product.
func (m *Mirror) RenderCaption(p model.Product) string {
	modelNumber := p.ModelNumber
	if modelNumber == "" {
		modelNumber = "unspecified"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔧 <b>%s</b>\n", p.ProductName)
	b.WriteString(captionRule + "\n")
	fmt.Fprintf(&b, "🚗 Car: <b>%s</b>\n", p.CarName)
	fmt.Fprintf(&b, "🔢 Model: %s\n", modelNumber)
	fmt.Fprintf(&b, "🏷️ Number: <code>%s</code>\n", p.ProductNumber)
	fmt.Fprintf(&b, "📂 Type: %s\n", p.Type)
	fmt.Fprintf(&b, "📦 Quantity: <b>%d</b>\n", p.Quantity)
	fmt.Fprintf(&b, "📊 Status: <b>%s</b>\n", p.Status)
	b.WriteString(captionRule + "\n")
	fmt.Fprintf(&b, "💰 Price: <b>%s IQD</b>\n", utils.FormatThousands(p.PriceIQD))
	fmt.Fprintf(&b, "📦 Wholesale: <b>%s IQD</b>\n", utils.FormatThousands(p.WholesalePriceIQD))
	b.WriteString(captionRule + "\n")
	fmt.Fprintf(&b, "📅 %s", m.clock.Now().UTC().Format("2006-01-02 15:04"))
	if p.Image != "" {
		fmt.Fprintf(&b, "\n🖼️ <a href='%s'>View image</a>", p.Image)
	}
	return b.String()
}

// Publish creates or refreshes the channel message for a product and
// returns the message id. When the product already has a message id the
// existing message is edited in place; if that edit fails (for example
// the message was deleted out of band) a single fallback send is
// attempted. A zero return with nil error means the mirror is not
// configured.
func (m *Mirror) Publish(ctx context.Context, p model.Product) (int64, error) {
	if !m.client.Configured() {
		return 0, nil
	}
	caption := m.RenderCaption(p)
	if p.MessageID != 0 {
		err := m.client.EditMessageText(ctx, p.MessageID, caption)
		if err == nil {
			return p.MessageID, nil
		}
		logger.Warningf("edit of message %d failed, sending a new one: %v", p.MessageID, err)
	}
	id, err := m.client.SendMessage(ctx, caption)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Retract deletes the channel message for a removed product. Failures
// are logged and swallowed; the catalog delete has already happened.
func (m *Mirror) Retract(ctx context.Context, messageID int64) {
	if messageID == 0 || !m.client.Configured() {
		return
	}
	if err := m.client.DeleteMessage(ctx, messageID); err != nil {
		logger.Warningf("retract of message %d failed: %v", messageID, err)
	}
}

// SyncFromChannel is the best-effort recovery stub: it counts recent
// channel messages for the configured chat without parsing structured
// data out of them. It never mutates catalog state.
func (m *Mirror) SyncFromChannel(ctx context.Context) (int, error) {
	if !m.client.Configured() {
		return 0, fmt.Errorf("messaging is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	updates, err := m.client.GetUpdates(ctx, 100)
	if err != nil {
		return 0, err
	}
	chatID, err := strconv.ParseInt(m.client.ChatID(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("chat id is not numeric: %v", err)
	}
	synced := 0
	for _, u := range updates {
		if u.Message.Chat.ID == chatID {
			synced++
		}
	}
	return synced, nil
}
