package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fleveque/sentiment-service/internal/config"
)

// New builds the Client selected by cfg.Provider.
func New(cfg config.LLMConfig, logger *zap.Logger) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewHTTPClient(cfg.ChatCompletionsURL(), cfg.APIKey, cfg.Model, cfg.Timeout, logger), nil
	case config.ProviderOpenAISDK:
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
