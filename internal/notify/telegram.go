package notify

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"

	"github.com/rs/zerolog"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier sends invoice lifecycle messages to the configured admin
// and stockman chats. Settings are read per send, so edits in the admin panel
// take effect without a restart. All failures are logged and swallowed: a
// notification must never fail the operation that triggered it.
type TelegramNotifier struct {
	settingsRepo repository.SettingsRepository
	client       *http.Client
	apiBase      string
	log          zerolog.Logger
}

func NewTelegramNotifier(settingsRepo repository.SettingsRepository, log zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		settingsRepo: settingsRepo,
		client:       &http.Client{Timeout: 10 * time.Second},
		apiBase:      telegramAPIBase,
		log:          log,
	}
}

func (n *TelegramNotifier) InvoiceCreated(ctx context.Context, invoice *model.Invoice) {
	n.send(ctx, formatInvoiceCreated(invoice))
}

func (n *TelegramNotifier) ShipmentConfirmed(ctx context.Context, invoice *model.Invoice) {
	n.send(ctx, formatShipmentConfirmed(invoice))
}

func (n *TelegramNotifier) send(ctx context.Context, text string) {
	settings, err := n.settingsRepo.Get(ctx)
	if err != nil {
		n.log.Warn().Err(err).Msg("telegram: failed to load settings")
		return
	}
	if !settings.TelegramEnabled || settings.TelegramBotToken == "" {
		return
	}

	for _, chatID := range []string{settings.TelegramAdminChatID, settings.TelegramStockmanChatID} {
		if chatID == "" {
			continue
		}
		if err := n.sendMessage(ctx, settings.TelegramBotToken, chatID, text); err != nil {
			n.log.Warn().Err(err).Str("chat_id", chatID).Msg("telegram: send failed")
		}
	}
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, token, chatID, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, token)
	form := url.Values{
		"chat_id":    {chatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram api returned %s", resp.Status)
	}
	return nil
}

func formatInvoiceCreated(invoice *model.Invoice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>New invoice %s</b>\n", html.EscapeString(invoice.DisplayID))
	fmt.Fprintf(&b, "Type: %s\n", invoice.Type)
	fmt.Fprintf(&b, "Seller: %s\n", html.EscapeString(invoice.SellerName))
	fmt.Fprintf(&b, "Customer: %s\n", html.EscapeString(invoice.CustomerName))
	fmt.Fprintf(&b, "Date: %s %s\n", invoice.Date, invoice.Time)
	writeItems(&b, invoice.Items)
	return b.String()
}

// formatShipmentConfirmed names the override recipient instead of the
// customer when the invoice carries an alternative delivery address.
func formatShipmentConfirmed(invoice *model.Invoice) string {
	recipient := invoice.CustomerName
	if invoice.IsAlternativeAddress && invoice.RecipientName != "" {
		recipient = invoice.RecipientName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Shipment confirmed %s</b>\n", html.EscapeString(invoice.DisplayID))
	fmt.Fprintf(&b, "Seller: %s\n", html.EscapeString(invoice.SellerName))
	fmt.Fprintf(&b, "Recipient: %s\n", html.EscapeString(recipient))
	if invoice.ConfirmedAt != nil {
		fmt.Fprintf(&b, "Shipped: %s\n", invoice.ConfirmedAt.Format("02/01/2006 15:04"))
	}
	fmt.Fprintf(&b, "Confirmed by: %s\n", html.EscapeString(invoice.ConfirmedByName))
	writeItems(&b, invoice.Items)
	return b.String()
}

func writeItems(b *strings.Builder, items []model.InvoiceItem) {
	b.WriteString("Items:\n")
	for _, item := range items {
		fmt.Fprintf(b, "  • %s × %d\n", html.EscapeString(item.ProductName), item.Quantity)
	}
}
