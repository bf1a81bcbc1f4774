package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/ragctx"
)

// LogicAgent checks for fallacies, cherry-picking, and manipulative
// framing, independent of whether the claim is factually true.
type LogicAgent struct {
	provider completionProvider
}

// NewLogicAgent creates the logical-consistency agent.
func NewLogicAgent(provider completionProvider) *LogicAgent {
	return &LogicAgent{provider: provider}
}

// Name identifies the agent.
func (a *LogicAgent) Name() model.AgentName {
	return model.AgentLogic
}

type logicOutput struct {
	Confidence       float64  `json:"confidence"`
	Summary          string   `json:"summary"`
	Fallacies        []string `json:"fallacies"`
	FactualSubclaims []string `json:"factual_subclaims"`
	OpinionFragments []string `json:"opinion_fragments"`
	Manipulative     bool     `json:"manipulative"`
}

// Analyze inspects the claim's internal logic and framing.
func (a *LogicAgent) Analyze(ctx context.Context, vc *ragctx.Context) (*model.AgentFinding, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim under analysis:\n%s\n\n", vc.ClaimText)
	b.WriteString(`Analyze the claim's logic and framing independent of factual truth. Identify fallacies and cherry-picking, separate checkable factual sub-claims from opinion, and decide whether the framing is manipulative.

Respond with JSON:
{"confidence": <0.0-1.0, your confidence that the claim is logically sound and neutrally framed>,
 "summary": "<2-3 sentences>",
 "fallacies": ["..."],
 "factual_subclaims": ["..."],
 "opinion_fragments": ["..."],
 "manipulative": <true|false>}`)

	resp, err := a.provider.Complete(ctx, llm.Request{
		System:      agentSystem,
		Prompt:      b.String(),
		JSONMode:    true,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var out logicOutput
	if err := llm.DecodeJSON(resp.Text, &out); err != nil {
		return nil, err
	}

	return &model.AgentFinding{
		Agent:      model.AgentLogic,
		Confidence: clampConfidence(out.Confidence),
		Summary:    out.Summary,
		Logic: &model.LogicFindings{
			Fallacies:        out.Fallacies,
			FactualSubclaims: out.FactualSubclaims,
			OpinionFragments: out.OpinionFragments,
			Manipulative:     out.Manipulative,
		},
	}, nil
}
