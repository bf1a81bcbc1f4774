// Package search abstracts web-search providers behind one interface with
// primary/secondary fallback, mirroring the LLM provider chain.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Result is one ranked search hit.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet,omitempty"`
}

// Options tune a single search call.
type Options struct {
	// Locale is a region/language hint (e.g. "es").
	Locale string

	// Max caps the number of results returned.
	Max int
}

// Provider is the web-search capability interface.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, opts Options) ([]Result, error)
}

// retryAttempts bounds transient-failure retries at the call site.
const retryAttempts = 3

// withRetry runs fn up to retryAttempts times with linear backoff,
// stopping early on success or context cancellation.
func withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// Chain tries providers in order until one returns results.
type Chain struct {
	providers []Provider
}

// NewChain creates a search fallback chain.
func NewChain(providers ...Provider) (*Chain, error) {
	ps := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	if len(ps) == 0 {
		return nil, fmt.Errorf("at least one search provider is required")
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

// Search tries each provider in order until one succeeds.
func (c *Chain) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	var lastErr error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results, err := p.Search(ctx, query, opts)
		if err == nil {
			return results, nil
		}
		lastErr = fmt.Errorf("%s: %w", p.Name(), err)
	}
	return nil, fmt.Errorf("all search providers failed: %w", lastErr)
}
