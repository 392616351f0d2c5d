package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"ligmir-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "services/telegram")
	defer cleanup()

	var gotPath string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.SendMessage(
		context.Background(),
		"secret-token",
		Source{ChatID: 30, MessageID: 10},
		"Perception check: 🎲7 + 3 = 10",
	)
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, "/botsecret-token/sendMessage", gotPath)
	require.Equal(t, map[string]string{
		"chat_id":             "30",
		"text":                "Perception check: 🎲7 + 3 = 10",
		"reply_to_message_id": "10",
	}, gotQuery)
}

func TestSendMessageHttpError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "services/telegram")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.SendMessage(
		context.Background(),
		"secret-token",
		Source{ChatID: 30, MessageID: 10},
		"hello",
	)
	require.Error(t, err)
}
