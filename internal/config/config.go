// Package config loads emoiq configuration from defaults, an optional
// config.yaml and EMOIQ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/emoiq/internal/llm"
	"github.com/abhisek/emoiq/internal/tone"
	"github.com/abhisek/emoiq/internal/validate"
)

const EnvPrefix = "EMOIQ"

type Config struct {
	DB       string         `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Rules    tone.Rules     `mapstructure:"rules"`
	Practice PracticeConfig `mapstructure:"practice"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	LLM      llm.Config     `mapstructure:"llm"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
	// File receives log output; empty means stderr for commands and no
	// logging inside the full-screen UI.
	File string `mapstructure:"file"`
}

type PracticeConfig struct {
	PageSize int `mapstructure:"page_size" validate:"gte=1,lte=200"`
}

// RemoteConfig points at the Postgres backend. DSN wins over the
// individual connection fields.
type RemoteConfig struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	Migrate  bool   `mapstructure:"migrate"`
}

// ConnString returns the gorm/pgx connection string, or "" when the remote
// store is not configured.
func (r RemoteConfig) ConnString() string {
	if r.DSN != "" {
		return r.DSN
	}
	if r.Host == "" {
		return ""
	}
	sslmode := r.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		r.Host, r.User, r.Password, r.DBName, r.Port, sslmode)
}

// defaults is flattened into viper so every key is visible to AutomaticEnv
// during Unmarshal.
func defaults() map[string]any {
	rules := tone.DefaultRules()
	l := llm.DefaultConfig()
	return map[string]any{
		"db":                      "",
		"log.level":               "info",
		"log.format":              "text",
		"log.file":                "",
		"rules.sharpness":         rules.Sharpness,
		"rules.close_threshold":   rules.CloseThreshold,
		"rules.near_threshold":    rules.NearThreshold,
		"rules.solve_tolerance":   rules.SolveTolerance,
		"rules.max_attempts":      rules.MaxAttempts,
		"practice.page_size":      25,
		"remote.dsn":              "",
		"remote.host":             "",
		"remote.port":             5432,
		"remote.user":             "",
		"remote.password":         "",
		"remote.dbname":           "",
		"remote.sslmode":          "",
		"remote.migrate":          false,
		"llm.provider":            l.Provider,
		"llm.anthropic.api_key":   "",
		"llm.anthropic.model":     l.Anthropic.Model,
		"llm.anthropic.base_url":  "",
		"llm.openai.api_key":      "",
		"llm.openai.model":        l.OpenAI.Model,
		"llm.openai.base_url":     "",
		"llm.gemini.api_key":      "",
		"llm.gemini.model":        l.Gemini.Model,
		"llm.gemini.base_url":     "",
		"llm.openrouter.api_key":  "",
		"llm.openrouter.model":    l.OpenRouter.Model,
		"llm.openrouter.base_url": l.OpenRouter.BaseURL,
		"llm.retry.max_attempts":  l.Retry.MaxAttempts,
		"llm.retry.initial_wait":  l.Retry.InitialWait,
		"llm.retry.max_wait":      l.Retry.MaxWait,
		"llm.retry.multiplier":    l.Retry.Multiplier,
		"llm.timeout":             l.Timeout,
	}
}

// NewViper returns a viper instance with defaults and env binding. When
// file is empty, config.yaml is looked up in the working directory and in
// $XDG_CONFIG_HOME/emoiq; a missing file is not an error.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults() {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func configDir() string {
	if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
		return filepath.Join(x, "emoiq")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "emoiq")
}

// Load decodes and validates v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
