package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/ragctx"
)

// CredibilityAgent scores each evidence domain and flags satire and
// low-trust outlets.
type CredibilityAgent struct {
	provider completionProvider
}

// NewCredibilityAgent creates the source-credibility agent.
func NewCredibilityAgent(provider completionProvider) *CredibilityAgent {
	return &CredibilityAgent{provider: provider}
}

// Name identifies the agent.
func (a *CredibilityAgent) Name() model.AgentName {
	return model.AgentSourceCredibility
}

type credibilityOutput struct {
	Confidence   float64 `json:"confidence"`
	Summary      string  `json:"summary"`
	DomainScores []struct {
		Domain string  `json:"domain"`
		Score  float64 `json:"score"`
		Note   string  `json:"note"`
	} `json:"domain_scores"`
	SatireDomains []string `json:"satire_domains"`
	LowTrust      []string `json:"low_trust"`
	MostCredible  string   `json:"most_credible"`
}

// Analyze rates the credibility of the evidence sources.
func (a *CredibilityAgent) Analyze(ctx context.Context, vc *ragctx.Context) (*model.AgentFinding, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim under verification:\n%s\n\n", vc.ClaimText)
	renderEvidence(&b, vc)
	b.WriteString(`Rate the credibility of each evidence domain for fact-checking purposes. Flag known satire outlets and low-trust domains. Name the single most credible source, or leave it empty if none qualifies.

Respond with JSON:
{"confidence": <0.0-1.0, your confidence that the evidence sources are trustworthy enough to support a verdict>,
 "summary": "<2-3 sentences>",
 "domain_scores": [{"domain": "...", "score": <0.0-1.0>, "note": "..."}],
 "satire_domains": ["..."],
 "low_trust": ["..."],
 "most_credible": "<domain or empty>"}`)

	resp, err := a.provider.Complete(ctx, llm.Request{
		System:      agentSystem,
		Prompt:      b.String(),
		JSONMode:    true,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var out credibilityOutput
	if err := llm.DecodeJSON(resp.Text, &out); err != nil {
		return nil, err
	}

	payload := &model.CredibilityFindings{
		SatireDomains: out.SatireDomains,
		LowTrust:      out.LowTrust,
		MostCredible:  out.MostCredible,
	}
	for _, ds := range out.DomainScores {
		payload.DomainScores = append(payload.DomainScores, model.DomainScore{
			Domain: ds.Domain,
			Score:  clampConfidence(ds.Score),
			Note:   ds.Note,
		})
	}

	return &model.AgentFinding{
		Agent:       model.AgentSourceCredibility,
		Confidence:  clampConfidence(out.Confidence),
		Summary:     out.Summary,
		Sources:     evidenceURLs(vc),
		Credibility: payload,
	}, nil
}
