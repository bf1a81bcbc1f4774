// Package llm abstracts text-completion providers behind a single
// capability interface so the pipeline never depends on a concrete vendor.
package llm

import "context"

// Request is a single completion request.
type Request struct {
	// System is the system prompt (optional).
	System string

	// Prompt is the user prompt.
	Prompt string

	// JSONMode asks the provider for a JSON object response where
	// supported. Callers still validate the shape; JSONMode only raises
	// the odds of well-formed output.
	JSONMode bool

	// MaxTokens limits the response length (0 = provider default).
	MaxTokens int

	// Temperature for generation. Verification prompts run cold.
	Temperature float32
}

// Response is the provider's completion output.
type Response struct {
	Text       string
	Model      string
	TokensUsed int
}

// Provider is the text-completion capability interface.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Complete runs one completion request.
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}
