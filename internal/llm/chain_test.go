package llm

import (
	"context"
	"fmt"
	"testing"
)

type stubProvider struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Response{Text: s.text, Model: s.name}, nil
}

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return s.err == nil }

func TestChain_FallsBack(t *testing.T) {
	primary := &stubProvider{name: "primary", err: fmt.Errorf("rate limited")}
	secondary := &stubProvider{name: "secondary", text: "ok"}

	chain, err := NewChain(primary, secondary)
	if err != nil {
		t.Fatalf("building chain: %v", err)
	}

	resp, err := chain.Complete(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("chain complete: %v", err)
	}
	if resp.Text != "ok" {
		t.Errorf("expected secondary response, got %q", resp.Text)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("expected both providers tried once, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestChain_PrimaryWins(t *testing.T) {
	primary := &stubProvider{name: "primary", text: "first"}
	secondary := &stubProvider{name: "secondary", text: "second"}
	chain, _ := NewChain(primary, secondary)

	resp, err := chain.Complete(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("chain complete: %v", err)
	}
	if resp.Text != "first" {
		t.Errorf("expected primary response, got %q", resp.Text)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary should not be called when primary succeeds")
	}
}

func TestChain_AllFail(t *testing.T) {
	chain, _ := NewChain(
		&stubProvider{name: "a", err: fmt.Errorf("down")},
		&stubProvider{name: "b", err: fmt.Errorf("also down")},
	)
	if _, err := chain.Complete(context.Background(), Request{}); err == nil {
		t.Errorf("expected error when all providers fail")
	}
}

func TestChain_ContextCancelled(t *testing.T) {
	provider := &stubProvider{name: "a", text: "ok"}
	chain, _ := NewChain(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := chain.Complete(ctx, Request{}); err == nil {
		t.Errorf("expected error for cancelled context")
	}
	if provider.calls != 0 {
		t.Errorf("cancelled context must not reach providers")
	}
}

func TestNewChain_Empty(t *testing.T) {
	if _, err := NewChain(); err == nil {
		t.Errorf("expected error for empty chain")
	}
	if _, err := NewChain(nil, nil); err == nil {
		t.Errorf("expected error for all-nil chain")
	}
}
