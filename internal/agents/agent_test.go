package agents

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/ragctx"
)

type fakeAgent struct {
	name    model.AgentName
	delay   time.Duration
	err     error
	finding *model.AgentFinding
}

func (f *fakeAgent) Name() model.AgentName { return f.name }

func (f *fakeAgent) Analyze(ctx context.Context, vc *ragctx.Context) (*model.AgentFinding, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.finding, nil
}

func TestPool_JoinsFindings(t *testing.T) {
	pool := NewPoolWithAgents(time.Second, nil,
		&fakeAgent{name: "a", finding: &model.AgentFinding{Agent: "a", Confidence: 0.8}},
		&fakeAgent{name: "b", finding: &model.AgentFinding{Agent: "b", Confidence: 0.6}},
	)

	findings := pool.Run(context.Background(), &ragctx.Context{ClaimText: "x"})
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}
}

func TestPool_ToleratesFailures(t *testing.T) {
	pool := NewPoolWithAgents(time.Second, nil,
		&fakeAgent{name: "ok", finding: &model.AgentFinding{Agent: "ok", Confidence: 0.7}},
		&fakeAgent{name: "broken", err: fmt.Errorf("model refused")},
	)

	findings := pool.Run(context.Background(), &ragctx.Context{ClaimText: "x"})
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Agent != "ok" {
		t.Errorf("wrong surviving finding: %s", findings[0].Agent)
	}
}

func TestPool_TimesOutSlowAgent(t *testing.T) {
	pool := NewPoolWithAgents(50*time.Millisecond, nil,
		&fakeAgent{name: "fast", finding: &model.AgentFinding{Agent: "fast", Confidence: 0.9}},
		&fakeAgent{name: "slow", delay: 2 * time.Second,
			finding: &model.AgentFinding{Agent: "slow", Confidence: 0.1}},
	)

	start := time.Now()
	findings := pool.Run(context.Background(), &ragctx.Context{ClaimText: "x"})
	if time.Since(start) > time.Second {
		t.Fatalf("pool did not enforce the per-agent timeout")
	}
	if len(findings) != 1 || findings[0].Agent != "fast" {
		t.Fatalf("expected only the fast finding, got %v", findings)
	}
}

func TestPool_AllFailed(t *testing.T) {
	pool := NewPoolWithAgents(time.Second, nil,
		&fakeAgent{name: "a", err: fmt.Errorf("down")},
		&fakeAgent{name: "b", err: fmt.Errorf("down")},
	)

	findings := pool.Run(context.Background(), &ragctx.Context{ClaimText: "x"})
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %d", len(findings))
	}
	if pool.Size() != 2 {
		t.Errorf("size should count configured agents, got %d", pool.Size())
	}
}

func TestClampConfidence(t *testing.T) {
	if got := clampConfidence(1.7); got != 1 {
		t.Errorf("expected clamp to 1, got %f", got)
	}
	if got := clampConfidence(-0.2); got != 0 {
		t.Errorf("expected clamp to 0, got %f", got)
	}
	if got := clampConfidence(0.42); got != 0.42 {
		t.Errorf("expected passthrough, got %f", got)
	}
}
