package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookvoice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "normal", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Timers.Max)
	assert.Equal(t, time.Second, cfg.Timers.Tick)
	assert.Equal(t, 5, cfg.Timers.DefaultMinutes)
	assert.Equal(t, 15*time.Second, cfg.Timers.ReminderCooldown)
	assert.Equal(t, 3, cfg.Timers.MaxEscalation)
	assert.True(t, cfg.Recipes.Watch)
	assert.False(t, cfg.Speech.Enabled)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, 3*time.Second, cfg.RecordDuration())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: verbose
timers:
  max: 3
  tick: 500ms
recipes:
  file: ./book.yaml
  watch: false
ai:
  enabled: true
  endpoint: https://example.com/chat
  key: secret
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "verbose", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Timers.Max)
	assert.Equal(t, 500*time.Millisecond, cfg.Timers.Tick)
	assert.Equal(t, "./book.yaml", cfg.Recipes.File)
	assert.False(t, cfg.Recipes.Watch)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, "secret", cfg.AI.Key)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5, cfg.Timers.DefaultMinutes)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "timers:\n  max: 3\n")
	t.Setenv("COOKVOICE_TIMERS_MAX", "7")
	t.Setenv("COOKVOICE_TIMERS_REMINDER_COOLDOWN", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Timers.Max)
	assert.Equal(t, time.Minute, cfg.Timers.ReminderCooldown)
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("AZURE_SPEECH_KEY", "azure-key")
	t.Setenv("AZURE_SPEECH_REGION", "westeurope")
	t.Setenv("GPT_CHAT_KEY", "chat-key")
	t.Setenv("GPT_CHAT_ENDPOINT", "https://example.com/chat")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "azure-key", cfg.Speech.AzureKey)
	assert.Equal(t, "westeurope", cfg.Speech.AzureRegion)
	assert.Equal(t, "chat-key", cfg.AI.Key)
	assert.Equal(t, "https://example.com/chat", cfg.AI.Endpoint)
}

func TestPrefixedEnvBeatsLegacy(t *testing.T) {
	t.Setenv("GPT_CHAT_KEY", "old")
	t.Setenv("COOKVOICE_AI_KEY", "new")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.AI.Key)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"zero timers", func(c *Config) { c.Timers.Max = 0 }, "timers.max"},
		{"zero tick", func(c *Config) { c.Timers.Tick = 0 }, "timers.tick"},
		{"zero default", func(c *Config) { c.Timers.DefaultMinutes = 0 }, "timers.default_minutes"},
		{"speech without key", func(c *Config) { c.Speech.Enabled = true }, "speech.azure_key"},
		{"ai without endpoint", func(c *Config) { c.AI.Enabled = true; c.AI.Key = "k" }, "ai.endpoint"},
		{"voice without chunk", func(c *Config) { c.Voice.Enabled = true; c.Voice.RecordSecs = 0 }, "voice.record_secs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
