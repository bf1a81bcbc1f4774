package llm

import (
	"context"
	"fmt"
	"strings"
)

// Chain tries an ordered list of providers, returning the first successful
// completion. A primary-provider outage degrades to the secondary instead
// of failing the caller.
type Chain struct {
	providers []Provider
}

// NewChain creates a fallback chain. At least one provider is required.
func NewChain(providers ...Provider) (*Chain, error) {
	ps := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	if len(ps) == 0 {
		return nil, fmt.Errorf("at least one LLM provider is required")
	}
	return &Chain{providers: ps}, nil
}

// Name lists the chained provider names.
func (c *Chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, ">")
}

// IsAvailable reports whether any provider in the chain is reachable.
func (c *Chain) IsAvailable(ctx context.Context) bool {
	for _, p := range c.providers {
		if p.IsAvailable(ctx) {
			return true
		}
	}
	return false
}

// Complete tries each provider in order until one succeeds. Context
// cancellation stops the chain; provider errors advance it.
func (c *Chain) Complete(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := p.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = fmt.Errorf("%s: %w", p.Name(), err)
	}
	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}
