// Package config loads cookvoice settings from an optional YAML file, the
// environment and built-in defaults, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override:
// COOKVOICE_TIMERS_MAX, COOKVOICE_AI_KEY, ...
const EnvPrefix = "COOKVOICE"

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Timers  TimerConfig   `mapstructure:"timers"`
	Recipes RecipeConfig  `mapstructure:"recipes"`
	Speech  SpeechConfig  `mapstructure:"speech"`
	Voice   VoiceConfig   `mapstructure:"voice"`
	AI      AIConfig      `mapstructure:"ai"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LogConfig controls verbosity and destination.
type LogConfig struct {
	Level string `mapstructure:"level"` // off | normal | verbose
	File  string `mapstructure:"file"`  // empty means stderr
}

// TimerConfig tunes the timer manager and its announcer.
type TimerConfig struct {
	Max              int           `mapstructure:"max"`
	Tick             time.Duration `mapstructure:"tick"`
	DefaultMinutes   int           `mapstructure:"default_minutes"`
	ReminderCooldown time.Duration `mapstructure:"reminder_cooldown"`
	MaxEscalation    int           `mapstructure:"max_escalation"`
	AlmostDone       time.Duration `mapstructure:"almost_done"`
	IdleLimit        time.Duration `mapstructure:"idle_limit"`
}

// RecipeConfig points at an optional YAML recipe book.
type RecipeConfig struct {
	File  string `mapstructure:"file"`
	Watch bool   `mapstructure:"watch"`
}

// SpeechConfig is the text-to-speech side.
type SpeechConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	AzureKey    string `mapstructure:"azure_key"`
	AzureRegion string `mapstructure:"azure_region"`
	Voice       string `mapstructure:"voice"`
	CacheDir    string `mapstructure:"cache_dir"`
}

// VoiceConfig is the speech-to-text side.
type VoiceConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	WhisperBin   string        `mapstructure:"whisper_bin"`
	WhisperModel string        `mapstructure:"whisper_model"`
	RecordSecs   int           `mapstructure:"record_secs"`
	ListenFor    time.Duration `mapstructure:"listen_for"`
}

// AIConfig is the free-form dialogue endpoint.
type AIConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Key      string `mapstructure:"key"`
	Model    string `mapstructure:"model"`
}

// MetricsConfig exposes Prometheus metrics when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// legacyEnv maps keys to the environment names earlier releases read
// straight from .env.
var legacyEnv = map[string]string{
	"speech.azure_key":    "AZURE_SPEECH_KEY",
	"speech.azure_region": "AZURE_SPEECH_REGION",
	"ai.key":              "GPT_CHAT_KEY",
	"ai.endpoint":         "GPT_CHAT_ENDPOINT",
}

// Load reads configuration from path (optional) and the environment.
// A missing file at the default location is not an error; a missing file
// that was asked for explicitly is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cookvoice")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		// Prefixed names first so COOKVOICE_* beats the legacy spelling.
		if err := v.BindEnv(key, EnvPrefix+"_"+envName(key), env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "normal")
	v.SetDefault("log.file", "")

	v.SetDefault("timers.max", 5)
	v.SetDefault("timers.tick", "1s")
	v.SetDefault("timers.default_minutes", 5)
	v.SetDefault("timers.reminder_cooldown", "15s")
	v.SetDefault("timers.max_escalation", 3)
	v.SetDefault("timers.almost_done", "30s")
	v.SetDefault("timers.idle_limit", "3m")

	v.SetDefault("recipes.file", "")
	v.SetDefault("recipes.watch", true)

	v.SetDefault("speech.enabled", false)
	v.SetDefault("speech.azure_key", "")
	v.SetDefault("speech.azure_region", "")
	v.SetDefault("speech.voice", "en-US-AvaNeural")
	v.SetDefault("speech.cache_dir", "")

	v.SetDefault("voice.enabled", false)
	v.SetDefault("voice.whisper_bin", "whisper-cli")
	v.SetDefault("voice.whisper_model", "models/ggml-base.en.bin")
	v.SetDefault("voice.record_secs", 3)
	v.SetDefault("voice.listen_for", "15s")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.endpoint", "")
	v.SetDefault("ai.key", "")
	v.SetDefault("ai.model", "")

	v.SetDefault("metrics.addr", "")
}

// Validate checks values that would make a component misbehave.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "off", "quiet", "none", "normal", "info", "verbose", "debug":
	default:
		return fmt.Errorf("log.level %q must be off, normal or verbose", c.Log.Level)
	}
	if c.Timers.Max < 1 {
		return fmt.Errorf("timers.max must be at least 1, got %d", c.Timers.Max)
	}
	if c.Timers.Tick <= 0 {
		return fmt.Errorf("timers.tick must be positive, got %s", c.Timers.Tick)
	}
	if c.Timers.DefaultMinutes < 1 {
		return fmt.Errorf("timers.default_minutes must be at least 1, got %d", c.Timers.DefaultMinutes)
	}
	if c.Speech.Enabled && (c.Speech.AzureKey == "" || c.Speech.AzureRegion == "") {
		return errors.New("speech.enabled requires speech.azure_key and speech.azure_region")
	}
	if c.Voice.Enabled && c.Voice.RecordSecs < 1 {
		return fmt.Errorf("voice.record_secs must be at least 1, got %d", c.Voice.RecordSecs)
	}
	if c.AI.Enabled && (c.AI.Endpoint == "" || c.AI.Key == "") {
		return errors.New("ai.enabled requires ai.endpoint and ai.key")
	}
	return nil
}

// RecordDuration is the voice chunk length as a duration.
func (c *Config) RecordDuration() time.Duration {
	return time.Duration(c.Voice.RecordSecs) * time.Second
}
