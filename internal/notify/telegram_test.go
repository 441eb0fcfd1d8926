package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTelegramNotify(t *testing.T) {
	var gotPath string
	var gotReq sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tg := NewTelegram("bot-token", "chat-42")
	tg.baseURL = server.URL

	ev := &Event{
		Kind:      KindReceiptCreated,
		ReceiptID: "r1",
		Name:      "Dinner",
		Total:     42.5,
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := tg.Notify(context.Background(), ev); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if gotPath != "/botbot-token/sendMessage" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotReq.ChatID != "chat-42" {
		t.Errorf("unexpected chat ID: %s", gotReq.ChatID)
	}
	if !strings.Contains(gotReq.Text, "Dinner") || !strings.Contains(gotReq.Text, "42.50") {
		t.Errorf("message missing receipt details: %q", gotReq.Text)
	}
}

func TestTelegramDisabled(t *testing.T) {
	tg := NewTelegram("", "")
	if tg.Enabled() {
		t.Error("expected notifications to be disabled without credentials")
	}
	// Must be a no-op, not an error.
	if err := tg.Notify(context.Background(), &Event{Kind: KindScanFailed}); err != nil {
		t.Errorf("Notify on disabled client returned error: %v", err)
	}
}
