package llm

import (
	"fmt"
	"time"
)

// Config selects and configures a provider. It is filled from the
// application config under the "llm" key.
type Config struct {
	Provider   string         `mapstructure:"provider" validate:"omitempty,oneof=anthropic openai openrouter gemini mock"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
	Retry      RetryConfig    `mapstructure:"retry"`
	Timeout    time.Duration  `mapstructure:"timeout"`
}

// ProviderConfig is the per-provider credential and model.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig is exponential backoff with jitter.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier" validate:"gte=1"`
}

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

func DefaultConfig() Config {
	return Config{
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-exp", BaseURL: defaultOpenRouterURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// Enabled reports whether a provider was selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Check reports a missing credential for the selected provider.
func (c Config) Check() error {
	var key string
	switch c.Provider {
	case "":
		return fmt.Errorf("no LLM provider configured (set EMOIQ_LLM_PROVIDER)")
	case "mock":
		return nil
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("llm.%s.api_key is required for the %s provider", c.Provider, c.Provider)
	}
	return nil
}
