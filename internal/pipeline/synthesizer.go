package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/veredicto/veredicto/internal/fetch"
	"github.com/veredicto/veredicto/internal/llm"
	"github.com/veredicto/veredicto/internal/model"
	"github.com/veredicto/veredicto/internal/ragctx"
)

// Synthesizer combines the agent findings into one verdict. It never
// returns an error: every failure mode degrades to an unverified verdict
// with zero confidence, which the review router then escalates.
type Synthesizer struct {
	provider  llm.Provider
	maxTokens int
	log       *zap.Logger
}

// NewSynthesizer creates a verdict synthesizer.
func NewSynthesizer(provider llm.Provider, cfg model.LLMConfig, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{provider: provider, maxTokens: cfg.MaxTokens, log: log}
}

const synthSystem = `You are the chief editor of a fact-checking pipeline. Four specialist analysts have examined a claim; you weigh their findings and deliver the final verdict. You only cite evidence the analysts saw. You respond with a single JSON object.`

type synthOutput struct {
	Status            string   `json:"status"`
	Confidence        float64  `json:"confidence"`
	EvidenceStrength  string   `json:"evidence_strength"`
	Explanation       string   `json:"explanation"`
	KeyEvidencePoints []string `json:"key_evidence_points"`
}

// disagreementSpread is the max-min agent confidence gap above which the
// agents are considered to be in material disagreement.
const disagreementSpread = 0.5

// explanationBudget caps the stored explanation. Model output past it is
// cut at a word boundary.
const explanationBudget = 600

// Synthesize produces the final verdict for a claim from its context and
// agent findings.
func (s *Synthesizer) Synthesize(ctx context.Context, vc *ragctx.Context, findings []model.AgentFinding) *model.Verdict {
	if len(findings) == 0 {
		return &model.Verdict{
			Status:           model.StatusUnverified,
			Confidence:       0,
			EvidenceStrength: model.EvidenceInsufficient,
			Explanation:      "No analyst produced a finding for this claim; verification could not be completed.",
		}
	}

	resp, err := s.provider.Complete(ctx, llm.Request{
		System:      synthSystem,
		Prompt:      s.buildPrompt(vc, findings),
		JSONMode:    true,
		MaxTokens:   s.maxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		s.log.Warn("synthesis call failed", zap.Error(err))
		return s.fallback("The synthesis model was unavailable.")
	}

	var out synthOutput
	if err := llm.DecodeJSON(resp.Text, &out); err != nil {
		s.log.Warn("malformed synthesis output", zap.Error(err))
		return s.fallback("The synthesis model returned unusable output.")
	}

	verdict := &model.Verdict{
		Status:            normalizeStatus(out.Status),
		EvidenceStrength:  normalizeStrength(out.EvidenceStrength),
		Explanation:       fetch.Truncate(strings.TrimSpace(out.Explanation), explanationBudget),
		KeyEvidencePoints: out.KeyEvidencePoints,
	}

	mean, spread := agentStats(findings)
	verdict.Confidence = combineConfidence(out.Confidence, mean, spread, verdict.EvidenceStrength)

	// Analysts far apart on the same claim means nobody should trust the
	// headline verdict yet.
	if spread >= disagreementSpread && verdict.Status != model.StatusUnverified {
		s.log.Info("agent disagreement forces unverified",
			zap.Float64("spread", spread), zap.String("proposed", string(verdict.Status)))
		verdict.Status = model.StatusUnverified
	}

	// A verified verdict needs at least one retrieved document behind it.
	if verdict.Status == model.StatusVerified && len(vc.Evidence) == 0 {
		verdict.Status = model.StatusUnverified
		verdict.EvidenceStrength = model.EvidenceInsufficient
	}

	return verdict
}

func (s *Synthesizer) fallback(reason string) *model.Verdict {
	return &model.Verdict{
		Status:           model.StatusUnverified,
		Confidence:       0,
		EvidenceStrength: model.EvidenceInsufficient,
		Explanation:      reason + " The claim is recorded as unverified pending review.",
	}
}

// combineConfidence folds the synthesis model's own confidence, the mean
// agent confidence, and the agent spread into one score, then discounts by
// evidence strength. Each term moves monotonically: more agent agreement
// and stronger evidence never lower the score.
func combineConfidence(llmConf, agentMean, spread float64, strength model.EvidenceStrength) float64 {
	raw := 0.55*clamp01(llmConf) + 0.45*agentMean - 0.25*spread
	return clamp01(raw * strengthFactor(strength))
}

func strengthFactor(s model.EvidenceStrength) float64 {
	switch s {
	case model.EvidenceStrong:
		return 1.0
	case model.EvidenceModerate:
		return 0.92
	case model.EvidenceWeak:
		return 0.8
	default:
		return 0.6
	}
}

func agentStats(findings []model.AgentFinding) (mean, spread float64) {
	min, max := 1.0, 0.0
	var sum float64
	for _, f := range findings {
		c := clamp01(f.Confidence)
		sum += c
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	mean = sum / float64(len(findings))
	if max > min {
		spread = max - min
	}
	return mean, spread
}

func (s *Synthesizer) buildPrompt(vc *ragctx.Context, findings []model.AgentFinding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim under verification:\n%s\n\nAnalyst findings:\n\n", vc.ClaimText)
	for _, f := range findings {
		fmt.Fprintf(&b, "[%s] confidence %.2f\n%s\n", f.Agent, f.Confidence, f.Summary)
		switch {
		case f.Credibility != nil:
			if len(f.Credibility.SatireDomains) > 0 {
				fmt.Fprintf(&b, "Satire domains: %s\n", strings.Join(f.Credibility.SatireDomains, ", "))
			}
			if f.Credibility.MostCredible != "" {
				fmt.Fprintf(&b, "Most credible source: %s\n", f.Credibility.MostCredible)
			}
		case f.Historical != nil:
			for _, c := range f.Historical.Contradictions {
				fmt.Fprintf(&b, "Contradiction: %s\n", c)
			}
			if f.Historical.RepeatDebunk {
				b.WriteString("Flagged as a recycled, previously debunked claim.\n")
			}
		case f.Logic != nil:
			for _, fl := range f.Logic.Fallacies {
				fmt.Fprintf(&b, "Fallacy: %s\n", fl)
			}
			if f.Logic.Manipulative {
				b.WriteString("Framing judged manipulative.\n")
			}
		case f.Evidence != nil:
			fmt.Fprintf(&b, "Evidence assessment: %s\n", f.Evidence.Assessment)
			for _, p := range f.Evidence.Supporting {
				fmt.Fprintf(&b, "Supports: %s\n", p)
			}
			for _, p := range f.Evidence.Refuting {
				fmt.Fprintf(&b, "Refutes: %s\n", p)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(`Weigh the findings and deliver the final verdict. "verified" means the factual core holds; "debunked" means it is false; "misleading" means it mixes truth with distortion; "unverified" means the evidence does not settle it. Cite only evidence the analysts mentioned.

Respond with JSON:
{"status": "verified|debunked|misleading|unverified",
 "confidence": <0.0-1.0>,
 "evidence_strength": "strong|moderate|weak|insufficient",
 "explanation": "<3-5 sentences, written for a general reader>",
 "key_evidence_points": ["..."]}`)
	return b.String()
}

func normalizeStatus(s string) model.ClaimStatus {
	status := model.ClaimStatus(strings.ToLower(strings.TrimSpace(s)))
	if model.ValidStatus(status) {
		return status
	}
	return model.StatusUnverified
}

func normalizeStrength(s string) model.EvidenceStrength {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strong":
		return model.EvidenceStrong
	case "moderate":
		return model.EvidenceModerate
	case "weak":
		return model.EvidenceWeak
	default:
		return model.EvidenceInsufficient
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
