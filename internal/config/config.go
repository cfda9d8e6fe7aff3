// Package config loads settings from an optional YAML file and the
// environment. Environment variables win over file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

// ConfigError marks a fatal configuration problem; the process exits before
// any loop starts.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

const (
	defaultPollSeconds = 60
	minPollSeconds     = 5
)

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Twitch   TwitchConfig   `yaml:"twitch"`
	Logging  LoggingConfig  `yaml:"logging"`

	// PollSeconds is the poll interval in seconds (default 60, floor 5).
	PollSeconds int `yaml:"poll_seconds"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type TwitchConfig struct {
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Logins       []string `yaml:"logins"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PollInterval returns the configured interval with the safety floor applied.
func (c *Config) PollInterval() time.Duration {
	s := c.PollSeconds
	if s < minPollSeconds {
		s = minPollSeconds
	}
	return time.Duration(s) * time.Second
}

// Load reads the optional YAML file at path (empty path skips it), applies
// environment overrides, and validates required settings.
func Load(path string) (*Config, error) {
	cfg := &Config{PollSeconds: defaultPollSeconds}
	cfg.Logging.Level = "info"

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Msg: fmt.Sprintf("read config file: %v", err)}
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Msg: fmt.Sprintf("parse config file: %v", err)}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return &ConfigError{Msg: fmt.Sprintf("TELEGRAM_CHAT_ID must be an integer, got %q", v)}
		}
		cfg.Telegram.ChatID = id
	}
	if v := os.Getenv("TWITCH_CLIENT_ID"); v != "" {
		cfg.Twitch.ClientID = v
	}
	if v := os.Getenv("TWITCH_CLIENT_SECRET"); v != "" {
		cfg.Twitch.ClientSecret = v
	}
	if v := os.Getenv("TWITCH_USER_LOGINS"); v != "" {
		cfg.Twitch.Logins = splitLogins(v)
	}
	if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
		s, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Msg: fmt.Sprintf("POLL_INTERVAL_SECONDS must be an integer, got %q", v)}
		}
		cfg.PollSeconds = s
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

func splitLogins(raw string) []string {
	parts := strings.Split(raw, ",")
	logins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			logins = append(logins, p)
		}
	}
	return logins
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return &ConfigError{Msg: "TELEGRAM_BOT_TOKEN is required"}
	}
	if cfg.Telegram.ChatID == 0 {
		return &ConfigError{Msg: "TELEGRAM_CHAT_ID is required"}
	}
	if strings.TrimSpace(cfg.Twitch.ClientID) == "" {
		return &ConfigError{Msg: "TWITCH_CLIENT_ID is required"}
	}
	if strings.TrimSpace(cfg.Twitch.ClientSecret) == "" {
		return &ConfigError{Msg: "TWITCH_CLIENT_SECRET is required"}
	}
	if len(cfg.Twitch.Logins) == 0 {
		return &ConfigError{Msg: "TWITCH_USER_LOGINS is required (comma-separated logins)"}
	}
	return nil
}
