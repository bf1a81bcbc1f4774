package search

import (
	"fmt"
	"strings"

	"github.com/veredicto/veredicto/internal/model"
)

// NewProvider creates a concrete search provider from configuration.
func NewProvider(cfg model.ProviderConfig, searchCfg model.SearchConfig) (Provider, error) {
	switch strings.ToLower(cfg.Name) {
	case "brave":
		return NewBraveProvider(cfg, searchCfg.Timeout)

	case "searx", "searxng":
		return NewSearxProvider(cfg, searchCfg.Timeout)

	case "":
		return nil, fmt.Errorf("search provider name is required")

	default:
		return nil, fmt.Errorf("unknown search provider: %s (supported: brave, searxng)", cfg.Name)
	}
}

// NewFromConfig builds the primary/secondary fallback chain from the
// search configuration section.
func NewFromConfig(cfg model.SearchConfig) (Provider, error) {
	primary, err := NewProvider(cfg.Primary, cfg)
	if err != nil {
		return nil, fmt.Errorf("primary search provider: %w", err)
	}

	if cfg.Secondary.Name == "" {
		return primary, nil
	}

	secondary, err := NewProvider(cfg.Secondary, cfg)
	if err != nil {
		return nil, fmt.Errorf("secondary search provider: %w", err)
	}

	return NewChain(primary, secondary)
}
