// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults — merged in priority order.
// A .env file in the working directory is loaded first, so local development doesn't
// need exported variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider names accepted in llm.provider.
const (
	ProviderOpenAI    = "openai"     // raw HTTP POST to <base_url>/chat/completions
	ProviderOpenAISDK = "openai-sdk" // same endpoint through go-openai
	ProviderAnthropic = "anthropic"
)

// ErrMissingAPIKey is returned by Load when the selected provider has no key.
var ErrMissingAPIKey = errors.New("missing upstream API key")

// Config is the root configuration struct. It is loaded once at startup
// and handed to the components that need it.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Forward  ForwardConfig  `mapstructure:"forward"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Storage  StorageConfig  `mapstructure:"storage"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LLMConfig struct {
	// Provider selects the completion backend: openai, openai-sdk or anthropic.
	Provider  string          `mapstructure:"provider"`
	BaseURL   string          `mapstructure:"base_url"`
	APIKey    string          `mapstructure:"api_key"`
	Model     string          `mapstructure:"model"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ForwardConfig points at the relay service that receives finished analyses.
// An empty URL disables forwarding. Timeout also applies to Telegram requests.
type ForwardConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// StorageConfig configures the optional upstream call log.
// An empty DatabasePath disables it.
type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from .env, an optional YAML file and environment variables.
func Load(configPath string) (*Config, error) {
	// Missing .env is the normal case in containers.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4-0125-preview")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("forward.timeout", 5*time.Second)
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// SENTIMENT_ prefix + nested keys: SENTIMENT_LLM_MODEL=gpt-4o → llm.model=gpt-4o
	v.SetEnvPrefix("SENTIMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// The well-known names the deployment already uses.
	bindings := map[string]string{
		"server.port":           "PORT",
		"llm.api_key":           "OPENAI_API_KEY",
		"llm.anthropic.api_key": "ANTHROPIC_API_KEY",
		"forward.url":           "TELEGRAM_SERVICE_URL",
		"telegram.bot_token":    "TELEGRAM_BOT_TOKEN",
		"telegram.chat_id":      "TELEGRAM_CHAT_ID",
		"storage.database_path": "SENTIMENT_DATABASE_PATH",
	}
	for key, env := range bindings {
		prefixed := "SENTIMENT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the selected provider is known and has credentials.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOpenAISDK:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
		}
	case ProviderAnthropic:
		if c.LLM.Anthropic.APIKey == "" {
			return fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrMissingAPIKey)
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

// Address returns the listen address string like "0.0.0.0:5000".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ChatCompletionsURL is the endpoint the raw HTTP client posts to.
func (l LLMConfig) ChatCompletionsURL() string {
	return strings.TrimRight(l.BaseURL, "/") + "/chat/completions"
}
