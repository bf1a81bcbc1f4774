package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/ragctx"
)

// EvidenceAgent judges whether the fetched evidence supports, refutes, or
// is insufficient for the claim.
type EvidenceAgent struct {
	provider completionProvider
}

// NewEvidenceAgent creates the evidence-analysis agent.
func NewEvidenceAgent(provider completionProvider) *EvidenceAgent {
	return &EvidenceAgent{provider: provider}
}

// Name identifies the agent.
func (a *EvidenceAgent) Name() model.AgentName {
	return model.AgentEvidence
}

type evidenceOutput struct {
	Confidence float64  `json:"confidence"`
	Summary    string   `json:"summary"`
	Assessment string   `json:"assessment"`
	Supporting []string `json:"supporting"`
	Refuting   []string `json:"refuting"`
	Gaps       []string `json:"gaps"`
}

// Analyze weighs the retrieved evidence text against the claim.
func (a *EvidenceAgent) Analyze(ctx context.Context, vc *ragctx.Context) (*model.AgentFinding, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim under verification:\n%s\n\n", vc.ClaimText)
	renderEvidence(&b, vc)
	b.WriteString(`Judge whether the evidence above supports or refutes the claim. Name specific supporting points, refuting points, and gaps where evidence is missing. Base everything strictly on the evidence text; missing evidence is a gap, not a refutation.

Respond with JSON:
{"confidence": <0.0-1.0, your confidence in the assessment>,
 "summary": "<2-3 sentences>",
 "assessment": "supports|refutes|mixed|insufficient",
 "supporting": ["..."],
 "refuting": ["..."],
 "gaps": ["..."]}`)

	resp, err := a.provider.Complete(ctx, llm.Request{
		System:      agentSystem,
		Prompt:      b.String(),
		JSONMode:    true,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	var out evidenceOutput
	if err := llm.DecodeJSON(resp.Text, &out); err != nil {
		return nil, err
	}

	return &model.AgentFinding{
		Agent:      model.AgentEvidence,
		Confidence: clampConfidence(out.Confidence),
		Summary:    out.Summary,
		Sources:    evidenceURLs(vc),
		Evidence: &model.EvidenceFindings{
			Assessment: normalizeAssessment(out.Assessment),
			Supporting: out.Supporting,
			Refuting:   out.Refuting,
			Gaps:       out.Gaps,
		},
	}, nil
}

func normalizeAssessment(s string) model.EvidenceAssessment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "supports", "support":
		return model.AssessmentSupports
	case "refutes", "refute":
		return model.AssessmentRefutes
	case "mixed":
		return model.AssessmentMixed
	default:
		return model.AssessmentInsufficient
	}
}
