package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("TWITCH_CLIENT_ID", "cid")
	t.Setenv("TWITCH_CLIENT_SECRET", "secret")
	t.Setenv("TWITCH_USER_LOGINS", "alice, Bob ,carol")
}

func TestLoadFromEnv(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "bot-token", cfg.Telegram.Token)
	require.Equal(t, int64(-100123), cfg.Telegram.ChatID)
	require.Equal(t, []string{"alice", "Bob", "carol"}, cfg.Twitch.Logins)
	require.Equal(t, 60*time.Second, cfg.PollInterval())
}

func TestMissingRequiredSettings(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{name: "token", unset: "TELEGRAM_BOT_TOKEN"},
		{name: "chat id", unset: "TELEGRAM_CHAT_ID"},
		{name: "client id", unset: "TWITCH_CLIENT_ID"},
		{name: "client secret", unset: "TWITCH_CLIENT_SECRET"},
		{name: "logins", unset: "TWITCH_USER_LOGINS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load("")
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "want ConfigError, got %v", err)
		})
	}
}

func TestPollIntervalFloorAndDefault(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("POLL_INTERVAL_SECONDS", "1")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.PollInterval())

	t.Setenv("POLL_INTERVAL_SECONDS", "120")
	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, 120*time.Second, cfg.PollInterval())
}

func TestInvalidNumericEnvValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "chat id", key: "TELEGRAM_CHAT_ID", value: "not-a-number"},
		{name: "poll interval", key: "POLL_INTERVAL_SECONDS", value: "fast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "want ConfigError, got %v", err)
			require.Contains(t, cfgErr.Msg, tt.key)
		})
	}
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TWITCH_USER_LOGINS", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
telegram:
  token: file-token
  chat_id: 42
twitch:
  client_id: cid
  client_secret: secret
  logins: [alice, bob]
poll_seconds: 30
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-token", cfg.Telegram.Token, "env wins over file")
	require.Equal(t, []string{"alice", "bob"}, cfg.Twitch.Logins)
	require.Equal(t, 30*time.Second, cfg.PollInterval())
}

func TestLoadMissingFile(t *testing.T) {
	setRequiredEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
}
