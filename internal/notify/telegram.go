package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram sends formatted event messages through the Telegram bot API.
// A zero token or chat ID disables sending.
type Telegram struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	chatID     string
}

func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    telegramAPIBase,
		botToken:   botToken,
		chatID:     chatID,
	}
}

// Enabled reports whether both the bot token and chat ID are configured.
func (t *Telegram) Enabled() bool {
	return t.botToken != "" && t.chatID != ""
}

// Notify formats the event and sends it to the configured chat.
func (t *Telegram) Notify(ctx context.Context, ev *Event) error {
	if !t.Enabled() {
		return nil
	}
	return t.sendMessage(ctx, formatEvent(ev))
}

func formatEvent(ev *Event) string {
	switch ev.Kind {
	case KindReceiptCreated:
		return fmt.Sprintf("*New receipt*\n\n*Name:* %s\n*Total:* %.2f\n*Time:* %s",
			ev.Name, ev.Total, ev.Timestamp.Format(time.RFC3339))
	case KindScanFailed:
		return fmt.Sprintf("\U0001F6A8 *Scan failed*\n\n*Time:* %s\n*Error:* %s",
			ev.Timestamp.Format(time.RFC3339), ev.Detail)
	default:
		return fmt.Sprintf("*%s*\n\n*Time:* %s", ev.Kind, ev.Timestamp.Format(time.RFC3339))
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}
