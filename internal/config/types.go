package config

import "time"

// Config is the full application configuration.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
// Unknown keys are rejected at decode time so typos surface early.
type Config struct {
	Telegram TelegramConfig `json:"telegram,omitempty"`
	Logging  LoggingConfig  `json:"logging,omitempty"`
	Provider ProviderConfig `json:"provider,omitempty"`
	Storage  StorageConfig  `json:"storage,omitempty"`
	Schedule ScheduleConfig `json:"schedule,omitempty"`
	Metrics  MetricsConfig  `json:"metrics,omitempty"`
}

// TelegramConfig carries notification-sink credentials.
//
// Token and ChatID may also come from the TELEGRAM_BOT_TOKEN and
// TELEGRAM_CHAT_ID environment variables, which take precedence over the
// file. When both are absent, notification delivery is disabled but the
// fetch/merge/persist pipeline still runs.
type TelegramConfig struct {
	Token       string `json:"token,omitempty"`
	ChatID      string `json:"chat_id,omitempty"`
	RatePerSec  int    `json:"rate_per_sec,omitempty"`
	SendTimeout string `json:"send_timeout,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level,omitempty"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// ProviderConfig controls the upstream calendar fetch.
type ProviderConfig struct {
	Endpoint  string `json:"endpoint,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	// Timezone is the provider's zone-id query parameter ("8" = GMT+8).
	Timezone string `json:"timezone,omitempty"`
	Timeout  string `json:"timeout,omitempty"`
	// WindowDays is the forward fetch horizon from today.
	WindowDays int `json:"window_days,omitempty"`
}

type StorageConfig struct {
	Driver      string `json:"driver,omitempty"`
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

// ScheduleConfig controls daemon mode. Spec is a robfig/cron expression
// (including "@hourly" style descriptors).
type ScheduleConfig struct {
	Spec       string `json:"spec,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	RunOnStart *bool  `json:"run_on_start,omitempty"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr,omitempty"`
}

// Default returns the configuration used when no config file exists.
// The CLI must work with zero required arguments.
func Default() *Config {
	runOnStart := true
	return &Config{
		Logging: LoggingConfig{Level: "info", Console: true},
		Provider: ProviderConfig{
			Timezone:   "8",
			Timeout:    "30s",
			WindowDays: 28,
		},
		Telegram: TelegramConfig{
			RatePerSec:  1,
			SendTimeout: "10s",
		},
		Storage:  StorageConfig{Driver: "file", Path: "./calendar_data.json"},
		Schedule: ScheduleConfig{Spec: "@hourly", RunOnStart: &runOnStart},
		Metrics:  MetricsConfig{Enabled: false, Addr: "127.0.0.1:9190"},
	}
}

// DurationOr parses a Go duration string, falling back to def when the
// value is empty or invalid.
func DurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
