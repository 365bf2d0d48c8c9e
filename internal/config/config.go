// Package config loads the checker configuration from config.json, a
// single-element JSON array kept for compatibility with existing configs.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config is an immutable snapshot of thresholds and run options, loaded
// once before a pass and never mutated during one.
type Config struct {
	MinMembers       int `json:"min_members"`
	MaxMembers       int `json:"max_members"`
	MinMembersOnline int `json:"min_members_online"`
	MinBoosts        int `json:"min_boosts"`

	UseProxies               bool `json:"use_proxies"`
	Threads                  int  `json:"threads"`
	SaveOnlyPermanentInvites bool `json:"save_only_permanent_invites"`

	AutoMode             bool    `json:"auto_mode"`
	CheckIntervalMinutes float64 `json:"check_interval_minutes"`

	// RequestsPerSecond caps outbound lookups; 0 disables the limiter.
	RequestsPerSecond float64 `json:"requests_per_second"`

	// APIBaseURL overrides the invite-resolution endpoint. Empty means
	// the public API.
	APIBaseURL string `json:"api_base_url"`

	// SocksProxy routes all lookups through one SOCKS5 endpoint instead
	// of the rotating pool.
	SocksProxy string `json:"socks5_proxy"`

	TelegramBotToken string   `json:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64    `json:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	TelegramThreadID int64    `json:"telegram_thread_id" env:"TELEGRAM_THREAD_ID"`
	TelegramMentions []string `json:"telegram_mentions"`
}

// Load reads path, takes the first array element and overlays credentials
// from the environment.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read %s", path)
	}

	var entries []Config
	if err := json.Unmarshal(raw, &entries); err != nil {
		return Config{}, errors.Wrapf(err, "parse %s", path)
	}
	if len(entries) == 0 {
		return Config{}, errors.Errorf("%s: expected a single-element array, got an empty one", path)
	}

	cfg := entries[0]
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "environment overlay")
	}

	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	if cfg.MinMembers > cfg.MaxMembers {
		return Config{}, errors.Errorf("min_members (%d) exceeds max_members (%d)", cfg.MinMembers, cfg.MaxMembers)
	}
	if cfg.AutoMode && cfg.CheckIntervalMinutes <= 0 {
		return Config{}, errors.New("auto_mode requires a positive check_interval_minutes")
	}

	return cfg, nil
}

// Interval returns the auto-mode cycle interval.
func (c Config) Interval() time.Duration {
	return time.Duration(c.CheckIntervalMinutes * float64(time.Minute))
}

// TelegramEnabled reports whether hit notifications are configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}
