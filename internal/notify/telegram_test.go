package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHit() Hit {
	return Hit{
		Code:          "abc123",
		GuildID:       "111",
		GuildName:     "Guild <One>",
		Members:       50,
		MembersOnline: 5,
		Boosts:        2,
		Permanent:     true,
	}
}

func TestNotifyHit(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	tg := NewTelegram(srv.Client(), TelegramConfig{
		BaseURL:  srv.URL,
		Token:    "123:abc",
		ChatID:   -100456,
		Mentions: []string{"@alice", "@bob"},
	})

	require.NoError(t, tg.NotifyHit(context.Background(), sampleHit()))

	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, float64(-100456), gotBody["chat_id"])
	assert.Equal(t, "HTML", gotBody["parse_mode"])
	assert.Equal(t, true, gotBody["disable_web_page_preview"])
	assert.NotContains(t, gotBody, "message_thread_id")

	text, _ := gotBody["text"].(string)
	assert.Contains(t, text, "abc123")
	assert.Contains(t, text, "Guild &lt;One&gt;")
	assert.Contains(t, text, "5/50")
	assert.Contains(t, text, "https://discord.gg/abc123")
	assert.Contains(t, text, "@alice @bob")
}

func TestNotifyHitThreadTarget(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	tg := NewTelegram(srv.Client(), TelegramConfig{BaseURL: srv.URL, Token: "t", ChatID: 1, ThreadID: 99})
	require.NoError(t, tg.NotifyHit(context.Background(), sampleHit()))
	assert.Equal(t, float64(99), gotBody["message_thread_id"])
}

func TestNotifyHitFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok": false, "description": "chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	tg := NewTelegram(srv.Client(), TelegramConfig{BaseURL: srv.URL, Token: "t", ChatID: 1})
	err := tg.NotifyHit(context.Background(), sampleHit())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestNotifyHitNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	tg := NewTelegram(http.DefaultClient, TelegramConfig{BaseURL: srv.URL, Token: "t", ChatID: 1})
	assert.Error(t, tg.NotifyHit(context.Background(), sampleHit()))
}
