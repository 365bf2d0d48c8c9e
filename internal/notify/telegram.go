// Package notify delivers best-effort hit notifications.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/tec9x/invitium/internal/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultBaseURL = "https://api.telegram.org"

	// Timeout bounds one delivery attempt so no worker blocks on a slow
	// notification endpoint.
	Timeout = 10 * time.Second
)

// Hit carries everything a notification message needs.
type Hit struct {
	Code          string
	GuildID       string
	GuildName     string
	Members       int
	MembersOnline int
	Boosts        int
	Permanent     bool
}

// Notifier delivers one hit. Failures are the caller's to log, never to
// escalate.
type Notifier interface {
	NotifyHit(ctx context.Context, hit Hit) error
}

type TelegramConfig struct {
	BaseURL  string // empty means the public API
	Token    string
	ChatID   int64
	ThreadID int64 // 0 means no forum thread targeting
	Mentions []string
}

// Telegram posts hit messages to a bot chat.
type Telegram struct {
	http httpx.Doer
	cfg  TelegramConfig
}

func NewTelegram(doer httpx.Doer, cfg TelegramConfig) *Telegram {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Telegram{http: doer, cfg: cfg}
}

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
	MessageThreadID       int64  `json:"message_thread_id,omitempty"`
}

func (t *Telegram) NotifyHit(ctx context.Context, hit Hit) error {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                t.cfg.ChatID,
		Text:                  t.message(hit),
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
		MessageThreadID:       t.cfg.ThreadID,
	})
	if err != nil {
		return errors.Wrap(err, "encode sendMessage payload")
	}

	target := fmt.Sprintf("%s/bot%s/sendMessage", t.cfg.BaseURL, t.cfg.Token)
	req, err := httpx.NewRequest(ctx, http.MethodPost, target, bytes.NewReader(payload), "")
	if err != nil {
		return errors.Wrap(err, "build sendMessage request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "send telegram message")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return errors.Errorf("telegram responded %s: %s", resp.Status, string(snippet))
	}
	return nil
}

func (t *Telegram) message(hit Hit) string {
	permanent := "no"
	if hit.Permanent {
		permanent = "yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Valid Invite</b>\n")
	fmt.Fprintf(&b, "Code: <code>%s</code>\n", html.EscapeString(hit.Code))
	fmt.Fprintf(&b, "Guild: %s (%s)\n", html.EscapeString(hit.GuildName), hit.GuildID)
	fmt.Fprintf(&b, "Members: %d/%d\n", hit.MembersOnline, hit.Members)
	fmt.Fprintf(&b, "Boosts: %d\n", hit.Boosts)
	fmt.Fprintf(&b, "Permanent: %s\n", permanent)
	fmt.Fprintf(&b, "https://discord.gg/%s", hit.Code)

	if len(t.cfg.Mentions) > 0 {
		fmt.Fprintf(&b, "\n\n%s", html.EscapeString(strings.Join(t.cfg.Mentions, " ")))
	}
	return b.String()
}
