package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/veredicto/veredicto/internal/model"
)

// NewProvider creates a concrete provider from configuration.
func NewProvider(cfg model.ProviderConfig, timeout time.Duration, maxTokens int) (Provider, error) {
	switch strings.ToLower(cfg.Name) {
	case "openai":
		return NewOpenAIProvider(cfg, timeout, maxTokens)

	case "anthropic", "claude":
		return NewAnthropicProvider(cfg, timeout, maxTokens)

	case "ollama":
		return NewOllamaProvider(cfg, timeout, maxTokens)

	case "":
		return nil, fmt.Errorf("LLM provider name is required")

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", cfg.Name)
	}
}

// NewFromConfig builds the primary/secondary fallback chain from the LLM
// configuration section.
func NewFromConfig(cfg model.LLMConfig) (Provider, error) {
	primary, err := NewProvider(cfg.Primary, cfg.Timeout, cfg.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("primary provider: %w", err)
	}

	if cfg.Secondary.Name == "" {
		return primary, nil
	}

	secondary, err := NewProvider(cfg.Secondary, cfg.Timeout, cfg.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("secondary provider: %w", err)
	}

	return NewChain(primary, secondary)
}
