package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures the coach's provider.
type Config struct {
	// Provider is one of the Provider* names.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the built-in defaults. No API keys are set.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// envBindings maps USBLORD_* variables onto config fields.
func envBindings(cfg *Config) map[string]*string {
	return map[string]*string{
		"USBLORD_LLM_PROVIDER":        &cfg.Provider,
		"USBLORD_ANTHROPIC_API_KEY":   &cfg.Anthropic.APIKey,
		"USBLORD_ANTHROPIC_MODEL":     &cfg.Anthropic.Model,
		"USBLORD_OPENAI_API_KEY":      &cfg.OpenAI.APIKey,
		"USBLORD_OPENAI_MODEL":        &cfg.OpenAI.Model,
		"USBLORD_OPENAI_BASE_URL":     &cfg.OpenAI.BaseURL,
		"USBLORD_GEMINI_API_KEY":      &cfg.Gemini.APIKey,
		"USBLORD_GEMINI_MODEL":        &cfg.Gemini.Model,
		"USBLORD_OPENROUTER_API_KEY":  &cfg.OpenRouter.APIKey,
		"USBLORD_OPENROUTER_MODEL":    &cfg.OpenRouter.Model,
		"USBLORD_OPENROUTER_BASE_URL": &cfg.OpenRouter.BaseURL,
	}
}

// ConfigFromEnv overlays USBLORD_* environment variables on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, field := range envBindings(&cfg) {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	return cfg
}

// DiscoverConfig looks for a vendor's standard API key variable and
// returns a config for the first one found, checking Anthropic, OpenAI,
// Gemini and OpenRouter in that order.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// HasKey reports whether the selected provider can be constructed.
func (c Config) HasKey() bool { return c.Validate() == nil }

// Validate checks that the selected provider has its API key.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "USBLORD_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "USBLORD_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "USBLORD_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "USBLORD_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
