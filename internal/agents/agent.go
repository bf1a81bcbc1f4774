// Package agents holds the fixed pool of specialized verification agents.
// Each agent independently scores a claim against the same context; the
// pool fans them out concurrently and tolerates individual failures.
package agents

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/ragctx"
)

// Agent is one specialized analyzer.
type Agent interface {
	// Name identifies the agent in findings and logs.
	Name() model.AgentName

	// Analyze scores the claim against the context.
	Analyze(ctx context.Context, vc *ragctx.Context) (*model.AgentFinding, error)
}

// Pool runs all agents concurrently with a per-agent timeout.
type Pool struct {
	agents  []Agent
	timeout time.Duration
	log     *zap.Logger
}

// NewPool creates the standard four-agent pool.
func NewPool(provider completionProvider, cfg model.AgentsConfig, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 45 * time.Second
	}
	return &Pool{
		agents: []Agent{
			NewCredibilityAgent(provider),
			NewHistoricalAgent(provider),
			NewLogicAgent(provider),
			NewEvidenceAgent(provider),
		},
		timeout: timeout,
		log:     log,
	}
}

// NewPoolWithAgents creates a pool over explicit agents (used by tests).
func NewPoolWithAgents(timeout time.Duration, log *zap.Logger, agents ...Agent) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{agents: agents, timeout: timeout, log: log}
}

// Size returns the number of agents in the pool.
func (p *Pool) Size() int {
	return len(p.agents)
}

// Run fans the agents out and joins their findings. An agent that errors
// or exceeds the per-agent timeout contributes no finding instead of
// blocking the rest; callers decide what zero findings mean.
func (p *Pool) Run(ctx context.Context, vc *ragctx.Context) []model.AgentFinding {
	findings := make([]*model.AgentFinding, len(p.agents))
	var wg sync.WaitGroup

	for i, agent := range p.agents {
		wg.Add(1)
		go func(i int, agent Agent) {
			defer wg.Done()

			agentCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			finding, err := agent.Analyze(agentCtx, vc)
			if err != nil {
				p.log.Warn("agent failed",
					zap.String("agent", string(agent.Name())), zap.Error(err))
				return
			}
			findings[i] = finding
		}(i, agent)
	}
	wg.Wait()

	out := make([]model.AgentFinding, 0, len(findings))
	for _, f := range findings {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
