package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/ragctx"
)

// HistoricalAgent compares the claim against similar past claims and
// established entity facts, hunting contradictions and repeat-debunk
// patterns in recurring misinformation.
type HistoricalAgent struct {
	provider completionProvider
}

// NewHistoricalAgent creates the historical/contradiction agent.
func NewHistoricalAgent(provider completionProvider) *HistoricalAgent {
	return &HistoricalAgent{provider: provider}
}

// Name identifies the agent.
func (a *HistoricalAgent) Name() model.AgentName {
	return model.AgentHistorical
}

type historicalOutput struct {
	Confidence     float64  `json:"confidence"`
	Summary        string   `json:"summary"`
	Contradictions []string `json:"contradictions"`
	RepeatDebunk   bool     `json:"repeat_debunk"`
	RelatedClaims  []string `json:"related_claims"`
}

// Analyze checks the claim against the knowledge base's history.
func (a *HistoricalAgent) Analyze(ctx context.Context, vc *ragctx.Context) (*model.AgentFinding, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim under verification:\n%s\n\n", vc.ClaimText)
	renderSimilarClaims(&b, vc)
	renderEntityFacts(&b, vc)
	b.WriteString(`Compare the claim against the past claims and established facts above. List direct contradictions. Set repeat_debunk to true if this looks like a recycled claim that was debunked before.

Respond with JSON:
{"confidence": <0.0-1.0, your confidence in the historical consistency of the claim>,
 "summary": "<2-3 sentences>",
 "contradictions": ["..."],
 "repeat_debunk": <true|false>,
 "related_claims": ["<past claims most relevant to this one>"]}`)

	resp, err := a.provider.Complete(ctx, llm.Request{
		System:      agentSystem,
		Prompt:      b.String(),
		JSONMode:    true,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var out historicalOutput
	if err := llm.DecodeJSON(resp.Text, &out); err != nil {
		return nil, err
	}

	return &model.AgentFinding{
		Agent:      model.AgentHistorical,
		Confidence: clampConfidence(out.Confidence),
		Summary:    out.Summary,
		Historical: &model.HistoricalFindings{
			Contradictions: out.Contradictions,
			RepeatDebunk:   out.RepeatDebunk,
			RelatedClaims:  out.RelatedClaims,
		},
	}, nil
}
